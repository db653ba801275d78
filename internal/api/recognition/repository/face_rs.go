package recognitionRepository

import (
	"AttendanceGolang/internal/api/recognition"
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

func (r *faceRepository) ListEnrolled(c context.Context) ([]entity.Student, error) {
	requestID := contextPkg.GetRequestID(c)

	var students []entity.Student
	if err := sqlx.SelectContext(c, r.q, &students, r.q.Rebind(queryListEnrolled)); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when listing enrolled faces")
		return nil, recognition.ErrStoreUnavailable
	}

	return students, nil
}

func (r *faceRepository) CountEnrolled(c context.Context) (int, error) {
	requestID := contextPkg.GetRequestID(c)

	var count int
	if err := sqlx.GetContext(c, r.q, &count, r.q.Rebind(queryCountEnrolled)); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when counting enrolled faces")
		return 0, recognition.ErrStoreUnavailable
	}

	return count, nil
}

func (r *faceRepository) GetStudent(c context.Context, studentNumber string) (entity.Student, error) {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryGetStudent, map[string]interface{}{"student_number": studentNumber})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for GetStudent")
		return entity.Student{}, err
	}
	query = r.q.Rebind(query)

	var student entity.Student
	if err := sqlx.GetContext(c, r.q, &student, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Student{}, recognition.ErrStudentNotFound
		}

		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when getting student")
		return entity.Student{}, err
	}

	return student, nil
}

func (r *faceRepository) UpsertEncoding(c context.Context, studentNumber string, encoding pq.Float64Array, photoURL string) error {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryUpsertEncoding, map[string]interface{}{
		"student_number": studentNumber,
		"encoding":       encoding,
		"face_photo_url": photoURL,
		"updated_at":     time.Now(),
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for UpsertEncoding")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when storing face encoding")
		return err
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return recognition.ErrStudentNotFound
	}

	return nil
}

func (r *faceRepository) DeleteEncoding(c context.Context, studentNumber string) error {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryDeleteEncoding, map[string]interface{}{
		"student_number": studentNumber,
		"updated_at":     time.Now(),
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for DeleteEncoding")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when deleting face encoding")
		return err
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return recognition.ErrStudentNotFound
	}

	return nil
}
