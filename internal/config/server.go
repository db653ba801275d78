package config

import (
	"AttendanceGolang/database/postgres"
	attendanceHandler "AttendanceGolang/internal/api/attendance/handler"
	attendanceRepository "AttendanceGolang/internal/api/attendance/repository"
	attendanceService "AttendanceGolang/internal/api/attendance/service"
	authHandler "AttendanceGolang/internal/api/auth/handler"
	authRepository "AttendanceGolang/internal/api/auth/repository"
	authService "AttendanceGolang/internal/api/auth/service"
	courseHandler "AttendanceGolang/internal/api/course/handler"
	courseRepository "AttendanceGolang/internal/api/course/repository"
	courseService "AttendanceGolang/internal/api/course/service"
	recognitionHandler "AttendanceGolang/internal/api/recognition/handler"
	recognitionRepository "AttendanceGolang/internal/api/recognition/repository"
	recognitionService "AttendanceGolang/internal/api/recognition/service"
	"AttendanceGolang/internal/middleware"
	"AttendanceGolang/pkg/bcrypt"
	"AttendanceGolang/pkg/camera"
	"AttendanceGolang/pkg/encoder"
	"AttendanceGolang/pkg/redis"
	"AttendanceGolang/pkg/s3"
	"AttendanceGolang/pkg/smtp"
	"AttendanceGolang/pkg/utils"
	"AttendanceGolang/pkg/whatsapp"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"os"
)

type ServerOption func(*Server) error

type Server struct {
	engine         *fiber.App
	db             *sqlx.DB
	log            *logrus.Logger
	middleware     middleware.Middleware
	validator      *validator.Validate
	utils          utils.IUtils
	bcryptUtils    bcrypt.IBcrypt
	handlers       []handler
	redisServer    redis.IRedis
	smtpMailer     smtp.ItfSmtp
	frameSource    camera.IFrameSource
	faceEncoder    encoder.IEncoder
	whatsappClient whatsapp.IWhatsappSender
	s3Client       s3.ItfS3
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithSMTPMailer(smtpMailer smtp.ItfSmtp) ServerOption {
	return func(s *Server) error {
		s.smtpMailer = smtpMailer
		return nil
	}
}

func WithFrameSource(frameSource camera.IFrameSource) ServerOption {
	return func(s *Server) error {
		s.frameSource = frameSource
		return nil
	}
}

func WithFaceEncoder(faceEncoder encoder.IEncoder) ServerOption {
	return func(s *Server) error {
		s.faceEncoder = faceEncoder
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithS3Client() ServerOption {
	return func(s *Server) error {
		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func WithWhatsappClient() ServerOption {
	return func(s *Server) error {
		client, err := whatsapp.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize WhatsApp client: %v", err)
			}
			return fmt.Errorf("failed to create WhatsApp client: %w", err)
		}
		s.whatsappClient = client
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func WithBcryptUtils() ServerOption {
	return func(s *Server) error {
		s.bcryptUtils = bcrypt.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Auth Domain
	authRepo := authRepository.New(s.db, s.log)
	authServices := authService.New(s.log, authRepo, s.bcryptUtils, s.utils)
	authHandlers := authHandler.New(s.log, authServices, s.validator, s.middleware)

	// Course Domain
	courseRepo := courseRepository.New(s.db, s.log)
	courseServices := courseService.New(s.log, courseRepo, s.utils)
	courseHandlers := courseHandler.New(s.log, s.validator, s.middleware, courseServices)

	// Attendance Domain
	attendanceRepo := attendanceRepository.New(s.db, s.log)
	attendanceServices := attendanceService.New(s.log, attendanceRepo, courseServices, s.utils, s.smtpMailer, s.whatsappClient)
	attendanceHandlers := attendanceHandler.New(s.log, s.validator, s.middleware, attendanceServices)

	// Recognition Domain
	recognitionRepo := recognitionRepository.New(s.db, s.log)
	recognitionServices := recognitionService.New(s.log, recognitionRepo, attendanceServices, s.frameSource, s.faceEncoder, s.redisServer, s.s3Client)
	recognitionHandlers := recognitionHandler.New(s.log, s.validator, s.middleware, s.utils, recognitionServices)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, authHandlers, courseHandlers, attendanceHandlers, recognitionHandlers)
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	if err := s.engine.Listen(fmt.Sprintf(":%s", port)); err != nil {
		if s.whatsappClient != nil {
			s.whatsappClient.Disconnect()
		}
		if s.faceEncoder != nil {
			s.faceEncoder.Close()
		}
		return err
	}

	return nil
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
