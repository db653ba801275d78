package entity

import (
	"time"

	"github.com/lib/pq"
)

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
)

// AttendanceSession is one attendance-taking event for one course meeting.
// Roster is snapshotted when the session opens and never follows later
// course edits. Absentees is only populated once Status is completed, at
// which point it equals roster minus participants and the record is frozen.
type AttendanceSession struct {
	ID           string         `db:"id"`
	CourseCode   string         `db:"course_code"`
	CourseName   string         `db:"course_name"`
	TeacherEmail string         `db:"teacher_email"`
	Status       SessionStatus  `db:"status"`
	Roster       pq.StringArray `db:"roster"`
	Participants pq.StringArray `db:"participants"`
	Absentees    pq.StringArray `db:"absentees"`
	StartedAt    time.Time      `db:"started_at"`
	CompletedAt  *time.Time     `db:"completed_at"`
}

type CourseAttendanceStats struct {
	CourseCode      string `db:"course_code"`
	CourseName      string `db:"course_name"`
	TotalSessions   int    `db:"total_sessions"`
	AttendedCount   int    `db:"attended_count"`
	MissedCount     int
	AttendanceRatio int
}
