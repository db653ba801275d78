package attendanceHandler

import (
	attendanceService "AttendanceGolang/internal/api/attendance/service"
	"AttendanceGolang/internal/entity"
	"AttendanceGolang/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AttendanceHandler struct {
	log               *logrus.Logger
	validator         *validator.Validate
	middleware        middleware.Middleware
	attendanceService attendanceService.AttendanceService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	as attendanceService.AttendanceService,
) *AttendanceHandler {
	return &AttendanceHandler{
		log:               log,
		validator:         validate,
		middleware:        middleware,
		attendanceService: as,
	}
}

func (h *AttendanceHandler) Start(srv fiber.Router) {
	sessions := srv.Group("/attendance/sessions", h.middleware.NewTokenMiddleware)

	sessions.Post("/", h.middleware.RequireRole(entity.RoleTeacher), h.HandleOpen)
	sessions.Get("/active", h.middleware.RequireRole(entity.RoleTeacher), h.HandleActiveForTeacher)
	sessions.Get("/mine", h.middleware.RequireRole(entity.RoleStudent), h.HandleActiveForStudent)
	sessions.Get("/:id", h.middleware.RequireRole(entity.RoleAdmin, entity.RoleTeacher), h.HandleReport)
	sessions.Get("/:id/me", h.middleware.RequireRole(entity.RoleStudent), h.HandleOwnStatus)
	sessions.Post("/:id/participants", h.middleware.RequireRole(entity.RoleAdmin, entity.RoleTeacher), h.HandleRecord)
	sessions.Delete("/:id/participants/:studentNumber", h.middleware.RequireRole(entity.RoleAdmin, entity.RoleTeacher), h.HandleRemove)
	sessions.Post("/:id/complete", h.middleware.RequireRole(entity.RoleAdmin, entity.RoleTeacher), h.HandleComplete)

	srv.Get("/attendance/tracking", h.middleware.NewTokenMiddleware, h.middleware.RequireRole(entity.RoleStudent), h.HandleTracking)
}
