package recognitionHandler

import (
	recognitionService "AttendanceGolang/internal/api/recognition/service"
	"AttendanceGolang/internal/entity"
	"AttendanceGolang/internal/middleware"
	"AttendanceGolang/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type RecognitionHandler struct {
	log                *logrus.Logger
	validator          *validator.Validate
	middleware         middleware.Middleware
	utils              utils.IUtils
	recognitionService recognitionService.RecognitionService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	utils utils.IUtils,
	rs recognitionService.RecognitionService,
) *RecognitionHandler {
	return &RecognitionHandler{
		log:                log,
		validator:          validate,
		middleware:         middleware,
		utils:              utils,
		recognitionService: rs,
	}
}

func (h *RecognitionHandler) Start(srv fiber.Router) {
	rec := srv.Group("/recognition", h.middleware.NewTokenMiddleware)

	rec.Post("/sessions/:sessionID/capture", h.middleware.RequireRole(entity.RoleAdmin, entity.RoleTeacher), h.HandleCapture)

	rec.Use("/sessions/:sessionID/live", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	rec.Get("/sessions/:sessionID/live", h.middleware.RequireRole(entity.RoleAdmin, entity.RoleTeacher), websocket.New(h.HandleLiveCapture))

	rec.Post("/cache/refresh", h.middleware.RequireRole(entity.RoleAdmin, entity.RoleTeacher), h.HandleRefreshCache)
	rec.Get("/cache/status", h.middleware.RequireRole(entity.RoleAdmin, entity.RoleTeacher), h.HandleCacheStatus)
	rec.Get("/status", h.middleware.RequireRole(entity.RoleAdmin, entity.RoleTeacher), h.HandleSystemStatus)

	rec.Post("/faces/:studentNumber", h.middleware.RequireRole(entity.RoleAdmin), h.HandleEnrollFace)
	rec.Get("/faces/:studentNumber/photo", h.middleware.RequireRole(entity.RoleAdmin, entity.RoleTeacher), h.HandleFacePhoto)
	rec.Delete("/faces/:studentNumber", h.middleware.RequireRole(entity.RoleAdmin), h.HandleDeleteFace)
}
