package courseRepository

import (
	"AttendanceGolang/internal/api/course"
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

func (r *courseRepository) CreateCourse(c context.Context, crs entity.Course) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"id":            crs.ID,
		"code":          crs.Code,
		"name":          crs.Name,
		"teacher_email": crs.TeacherEmail,
		"students":      crs.Students,
		"created_at":    time.Now(),
		"updated_at":    time.Now(),
	}

	query, args, err := sqlx.Named(queryCreateCourse, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateCourse")
		return err
	}
	query = r.q.Rebind(query)

	_, err = r.q.ExecContext(c, query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Course code already exists")
			return course.ErrCourseAlreadyExists
		}

		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating course")
		return err
	}

	return nil
}

func (r *courseRepository) GetByCode(c context.Context, code string) (entity.Course, error) {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryGetByCode, map[string]interface{}{"code": code})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for GetByCode")
		return entity.Course{}, err
	}
	query = r.q.Rebind(query)

	var crs entity.Course
	if err := sqlx.GetContext(c, r.q, &crs, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Course{}, course.ErrCourseNotFound
		}

		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when getting course by code")
		return entity.Course{}, err
	}

	return crs, nil
}

func (r *courseRepository) ListAll(c context.Context) ([]entity.Course, error) {
	requestID := contextPkg.GetRequestID(c)

	var courses []entity.Course
	if err := sqlx.SelectContext(c, r.q, &courses, r.q.Rebind(queryListAll)); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when listing courses")
		return nil, err
	}

	return courses, nil
}

func (r *courseRepository) ListByTeacher(c context.Context, teacherEmail string) ([]entity.Course, error) {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryListByTeacher, map[string]interface{}{"teacher_email": teacherEmail})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for ListByTeacher")
		return nil, err
	}
	query = r.q.Rebind(query)

	var courses []entity.Course
	if err := sqlx.SelectContext(c, r.q, &courses, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when listing courses by teacher")
		return nil, err
	}

	return courses, nil
}

func (r *courseRepository) UpdateCourse(c context.Context, crs entity.Course) error {
	requestID := contextPkg.GetRequestID(c)
	argsKV := map[string]interface{}{
		"code":          crs.Code,
		"name":          crs.Name,
		"teacher_email": crs.TeacherEmail,
		"students":      crs.Students,
		"updated_at":    time.Now(),
	}

	query, args, err := sqlx.Named(queryUpdateCourse, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for UpdateCourse")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when updating course")
		return err
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return course.ErrCourseNotFound
	}

	return nil
}

func (r *courseRepository) DeleteCourse(c context.Context, code string) error {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryDeleteCourse, map[string]interface{}{"code": code})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for DeleteCourse")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(c, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when deleting course")
		return err
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return course.ErrCourseNotFound
	}

	return nil
}
