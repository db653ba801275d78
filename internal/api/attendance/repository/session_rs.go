package attendanceRepository

import (
	"AttendanceGolang/internal/api/attendance"
	"AttendanceGolang/internal/entity"
	contextPkg "AttendanceGolang/pkg/context"
	"context"
	"database/sql"
	"errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"time"
)

func (r *sessionRepository) CreateSession(c context.Context, session entity.AttendanceSession) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":            session.ID,
		"course_code":   session.CourseCode,
		"course_name":   session.CourseName,
		"teacher_email": session.TeacherEmail,
		"status":        session.Status,
		"roster":        session.Roster,
		"participants":  session.Participants,
		"absentees":     session.Absentees,
		"started_at":    session.StartedAt,
	}

	query, args, err := sqlx.Named(queryCreateSession, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateSession")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating attendance session")
		return err
	}

	return nil
}

func (r *sessionRepository) GetByID(c context.Context, id string) (entity.AttendanceSession, error) {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryGetSessionByID, map[string]interface{}{"id": id})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for GetByID")
		return entity.AttendanceSession{}, err
	}
	query = r.q.Rebind(query)

	var session entity.AttendanceSession
	if err := sqlx.GetContext(c, r.q, &session, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.AttendanceSession{}, attendance.ErrSessionNotFound
		}

		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when getting attendance session")
		return entity.AttendanceSession{}, err
	}

	return session, nil
}

func (r *sessionRepository) AddParticipant(c context.Context, sessionID, studentNumber string) error {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryAddParticipant, map[string]interface{}{
		"id":             sessionID,
		"student_number": studentNumber,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for AddParticipant")
		return err
	}
	query = r.q.Rebind(query)

	// Zero rows affected means the student was already marked; the query is
	// idempotent on purpose, so that is not an error here.
	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when adding participant")
		return err
	}

	return nil
}

func (r *sessionRepository) RemoveParticipant(c context.Context, sessionID, studentNumber string) error {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryRemoveParticipant, map[string]interface{}{
		"id":             sessionID,
		"student_number": studentNumber,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for RemoveParticipant")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when removing participant")
		return err
	}

	return nil
}

func (r *sessionRepository) CompleteSession(c context.Context, sessionID string, absentees []string) error {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryCompleteSession, map[string]interface{}{
		"id":           sessionID,
		"absentees":    pq.StringArray(absentees),
		"completed_at": time.Now(),
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CompleteSession")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when completing attendance session")
		return err
	}

	return nil
}

func (r *sessionRepository) ListActiveForStudent(c context.Context, studentNumber string) ([]entity.AttendanceSession, error) {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryListActiveForStudent, map[string]interface{}{"student_number": studentNumber})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for ListActiveForStudent")
		return nil, err
	}
	query = r.q.Rebind(query)

	var sessions []entity.AttendanceSession
	if err := sqlx.SelectContext(c, r.q, &sessions, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when listing active sessions for student")
		return nil, err
	}

	return sessions, nil
}

func (r *sessionRepository) GetActiveForTeacher(c context.Context, teacherEmail string) (entity.AttendanceSession, error) {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryGetActiveForTeacher, map[string]interface{}{"teacher_email": teacherEmail})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for GetActiveForTeacher")
		return entity.AttendanceSession{}, err
	}
	query = r.q.Rebind(query)

	var session entity.AttendanceSession
	if err := sqlx.GetContext(c, r.q, &session, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.AttendanceSession{}, attendance.ErrSessionNotFound
		}

		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when getting active session for teacher")
		return entity.AttendanceSession{}, err
	}

	return session, nil
}

func (r *sessionRepository) CourseStatsForStudent(c context.Context, studentNumber string) ([]entity.CourseAttendanceStats, error) {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryCourseStatsForStudent, map[string]interface{}{"student_number": studentNumber})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CourseStatsForStudent")
		return nil, err
	}
	query = r.q.Rebind(query)

	var stats []entity.CourseAttendanceStats
	if err := sqlx.SelectContext(c, r.q, &stats, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when computing attendance stats")
		return nil, err
	}

	return stats, nil
}

func (r *studentRepository) ListByNumbers(c context.Context, studentNumbers []string) ([]entity.Student, error) {
	requestID := contextPkg.GetRequestID(c)

	if len(studentNumbers) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.Named(queryListStudentsByNumbers, map[string]interface{}{
		"student_numbers": pq.StringArray(studentNumbers),
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for ListByNumbers")
		return nil, err
	}
	query = r.q.Rebind(query)

	var students []entity.Student
	if err := sqlx.SelectContext(c, r.q, &students, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when listing students by number")
		return nil, err
	}

	return students, nil
}
