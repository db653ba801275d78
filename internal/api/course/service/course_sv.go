package courseService

import (
	"AttendanceGolang/internal/api/course"
	"AttendanceGolang/internal/entity"
	contextPkg "AttendanceGolang/pkg/context"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
	"time"
)

func (s *courseService) CreateCourse(ctx context.Context, req course.CreateCourseRequest) (course.CourseResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.courseRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return course.CourseResponse{}, err
	}

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
		return course.CourseResponse{}, err
	}

	crs := entity.Course{
		ID:           id,
		Code:         req.Code,
		Name:         req.Name,
		TeacherEmail: req.TeacherEmail,
		Students:     req.Students,
	}

	if err := repo.Courses.CreateCourse(ctx, crs); err != nil {
		return course.CourseResponse{}, err
	}

	return course.NewCourseResponse(crs), nil
}

func (s *courseService) GetByCode(ctx context.Context, code string) (course.CourseResponse, error) {
	repo, err := s.courseRepository.NewClient(false)
	if err != nil {
		return course.CourseResponse{}, err
	}

	crs, err := repo.Courses.GetByCode(ctx, code)
	if err != nil {
		return course.CourseResponse{}, err
	}

	return course.NewCourseResponse(crs), nil
}

func (s *courseService) ListAll(ctx context.Context) ([]course.CourseResponse, error) {
	repo, err := s.courseRepository.NewClient(false)
	if err != nil {
		return nil, err
	}

	courses, err := repo.Courses.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]course.CourseResponse, 0, len(courses))
	for _, crs := range courses {
		res = append(res, course.NewCourseResponse(crs))
	}

	return res, nil
}

func (s *courseService) ListByTeacher(ctx context.Context, teacherEmail string) ([]course.CourseResponse, error) {
	repo, err := s.courseRepository.NewClient(false)
	if err != nil {
		return nil, err
	}

	courses, err := repo.Courses.ListByTeacher(ctx, teacherEmail)
	if err != nil {
		return nil, err
	}

	res := make([]course.CourseResponse, 0, len(courses))
	for _, crs := range courses {
		res = append(res, course.NewCourseResponse(crs))
	}

	return res, nil
}

func (s *courseService) UpdateCourse(ctx context.Context, code string, req course.UpdateCourseRequest) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.courseRepository.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}

	crs, err := repo.Courses.GetByCode(ctx, code)
	if err != nil {
		return err
	}

	if req.Name != "" {
		crs.Name = req.Name
	}
	if req.TeacherEmail != "" {
		crs.TeacherEmail = req.TeacherEmail
	}
	if req.Students != nil {
		crs.Students = req.Students
	}

	return repo.Courses.UpdateCourse(ctx, crs)
}

func (s *courseService) DeleteCourse(ctx context.Context, code string) error {
	repo, err := s.courseRepository.NewClient(false)
	if err != nil {
		return err
	}

	return repo.Courses.DeleteCourse(ctx, code)
}

func (s *courseService) GetRoster(ctx context.Context, code string) ([]string, error) {
	repo, err := s.courseRepository.NewClient(false)
	if err != nil {
		return nil, err
	}

	crs, err := repo.Courses.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	return crs.Students, nil
}
