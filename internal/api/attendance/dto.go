package attendance

import "time"

type OpenSessionRequest struct {
	CourseCode string `json:"course_code" validate:"required,min=2,max=20"`
}

type RecordParticipationRequest struct {
	StudentNumber string `json:"student_number" validate:"required,min=4,max=20"`
}

type SessionResponse struct {
	ID               string    `json:"id"`
	CourseCode       string    `json:"course_code"`
	CourseName       string    `json:"course_name"`
	TeacherEmail     string    `json:"teacher_email"`
	Status           string    `json:"status"`
	StartedAt        time.Time `json:"started_at"`
	RosterSize       int       `json:"roster_size"`
	ParticipantCount int       `json:"participant_count"`
}

type RecordResponse struct {
	SessionID     string `json:"session_id"`
	StudentNumber string `json:"student_number"`
	AlreadyMarked bool   `json:"already_marked"`
}

type CompletionResponse struct {
	SessionID    string    `json:"session_id"`
	CourseCode   string    `json:"course_code"`
	Participants []string  `json:"participants"`
	Absentees    []string  `json:"absentees"`
	CompletedAt  time.Time `json:"completed_at"`
}

type RosterEntry struct {
	StudentNumber string `json:"student_number"`
	Name          string `json:"name"`
	Present       bool   `json:"present"`
}

type SessionReportResponse struct {
	SessionID  string        `json:"session_id"`
	CourseCode string        `json:"course_code"`
	CourseName string        `json:"course_name"`
	Status     string        `json:"status"`
	StartedAt  time.Time     `json:"started_at"`
	Roster     []RosterEntry `json:"roster"`
	Absentees  []string      `json:"absentees,omitempty"`
}

type ActiveSessionResponse struct {
	SessionID     string    `json:"session_id"`
	CourseCode    string    `json:"course_code"`
	CourseName    string    `json:"course_name"`
	TeacherEmail  string    `json:"teacher_email"`
	StartedAt     time.Time `json:"started_at"`
	AlreadyMarked bool      `json:"already_marked"`
}

type CourseTrackingResponse struct {
	CourseCode      string `json:"course_code"`
	CourseName      string `json:"course_name"`
	TotalSessions   int    `json:"total_sessions"`
	AttendedCount   int    `json:"attended_count"`
	MissedCount     int    `json:"missed_count"`
	AttendanceRatio int    `json:"attendance_ratio"`
}
