package courseService

import (
	"AttendanceGolang/internal/api/course"
	courseRepository "AttendanceGolang/internal/api/course/repository"
	"AttendanceGolang/pkg/utils"
	"context"
	"github.com/sirupsen/logrus"
)

type CourseService interface {
	CreateCourse(c context.Context, req course.CreateCourseRequest) (course.CourseResponse, error)
	GetByCode(c context.Context, code string) (course.CourseResponse, error)
	ListAll(c context.Context) ([]course.CourseResponse, error)
	ListByTeacher(c context.Context, teacherEmail string) ([]course.CourseResponse, error)
	UpdateCourse(c context.Context, code string, req course.UpdateCourseRequest) error
	DeleteCourse(c context.Context, code string) error

	// GetRoster is the roster provider consumed by the attendance domain
	// when a session opens.
	GetRoster(c context.Context, code string) ([]string, error)
}

type courseService struct {
	log              *logrus.Logger
	courseRepository courseRepository.Repository
	utils            utils.IUtils
}

func New(
	log *logrus.Logger,
	repo courseRepository.Repository,
	utils utils.IUtils,
) CourseService {
	return &courseService{
		log:              log,
		courseRepository: repo,
		utils:            utils,
	}
}
