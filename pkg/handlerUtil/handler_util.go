package handlerUtil

import (
	"AttendanceGolang/internal/api/attendance"
	"AttendanceGolang/internal/api/recognition"
	"AttendanceGolang/pkg/log"
	"AttendanceGolang/pkg/response"
	"errors"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	// Attendance domain errors carry machine-readable codes so the client
	// can tell a state conflict from a missing resource.
	if errors.Is(err, attendance.ErrSessionClosed) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Session already completed")
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Attendance session is already completed",
			"code":  "SESSION_CLOSED",
		})
	}

	if errors.Is(err, attendance.ErrNotOnRoster) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Student not on session roster")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Student is not on the session roster",
			"code":  "NOT_ON_ROSTER",
		})
	}

	if errors.Is(err, attendance.ErrCourseNotFound) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Course not found")
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
			"code":  "COURSE_NOT_FOUND",
		})
	}

	// A broken camera must never be reported as "nobody matched": the
	// operator needs to know the device is down.
	if errors.Is(err, recognition.ErrCaptureUnavailable) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Error("Capture device unavailable")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Capture unavailable, check the camera",
			"code":  "CAPTURE_UNAVAILABLE",
		})
	}

	if errors.Is(err, recognition.ErrStoreUnavailable) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Error("Encoding store unavailable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Face data store unavailable, try again",
			"code":  "STORE_UNAVAILABLE",
		})
	}

	var respErr *response.Error
	if errors.As(err, &respErr) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"code":       respErr.Code,
			"path":       path,
			"operation":  operation,
		}).Warn("Operation failed with error response")
		return c.Status(respErr.Code).JSON(fiber.Map{"error": err.Error()})
	}

	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}).Error("Unhandled error")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
		"code":  "INTERNAL_ERROR",
	})
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Validation failed: " + err.Error(),
		"code":  "VALIDATION_ERROR",
	})
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(utils.StatusMessage(fiber.StatusRequestTimeout))
}

func (h *ErrorHandler) HandleUnauthorized(c *fiber.Ctx, requestID string, message string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"path":       c.Path(),
		"message":    message,
	}).Warn("Unauthorized access")

	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": message,
		"code":  "UNAUTHORIZED",
	})
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}
