package courseHandler

import (
	courseService "AttendanceGolang/internal/api/course/service"
	"AttendanceGolang/internal/entity"
	"AttendanceGolang/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type CourseHandler struct {
	log           *logrus.Logger
	validator     *validator.Validate
	middleware    middleware.Middleware
	courseService courseService.CourseService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	cs courseService.CourseService,
) *CourseHandler {
	return &CourseHandler{
		log:           log,
		validator:     validate,
		middleware:    middleware,
		courseService: cs,
	}
}

func (h *CourseHandler) Start(srv fiber.Router) {
	courses := srv.Group("/courses")
	courses.Get("/", h.middleware.NewTokenMiddleware, h.HandleListAll)
	courses.Get("/mine", h.middleware.NewTokenMiddleware, h.middleware.RequireRole(entity.RoleTeacher), h.HandleListMine)
	courses.Get("/:code", h.middleware.NewTokenMiddleware, h.HandleGetByCode)
	courses.Post("/", h.middleware.NewTokenMiddleware, h.middleware.RequireRole(entity.RoleAdmin, entity.RoleTeacher), h.HandleCreate)
	courses.Put("/:code", h.middleware.NewTokenMiddleware, h.middleware.RequireRole(entity.RoleAdmin, entity.RoleTeacher), h.HandleUpdate)
	courses.Delete("/:code", h.middleware.NewTokenMiddleware, h.middleware.RequireRole(entity.RoleAdmin), h.HandleDelete)
}
