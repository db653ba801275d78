package attendanceHandler

import (
	"AttendanceGolang/internal/api/attendance"
	contextPkg "AttendanceGolang/pkg/context"
	"AttendanceGolang/pkg/handlerUtil"
	jwtPkg "AttendanceGolang/pkg/jwt"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
	"time"
)

func (h *AttendanceHandler) HandleOpen(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	user, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	var req attendance.OpenSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	res, err := h.attendanceService.Open(c, user.Email, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "open_session")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, res)
	}
}

func (h *AttendanceHandler) HandleRecord(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req attendance.RecordParticipationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	res, err := h.attendanceService.RecordParticipation(c, ctx.Params("id"), req.StudentNumber)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "record_participation")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *AttendanceHandler) HandleRemove(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	err := h.attendanceService.RemoveParticipation(c, ctx.Params("id"), ctx.Params("studentNumber"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "remove_participation")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, nil)
}

func (h *AttendanceHandler) HandleComplete(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	res, err := h.attendanceService.Complete(c, ctx.Params("id"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "complete_session")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *AttendanceHandler) HandleReport(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	res, err := h.attendanceService.GetReport(c, ctx.Params("id"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_session_report")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
}

func (h *AttendanceHandler) HandleOwnStatus(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	user, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	marked, err := h.attendanceService.StatusOf(c, ctx.Params("id"), user.StudentNumber)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_own_status")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{
		"session_id":     ctx.Params("id"),
		"student_number": user.StudentNumber,
		"present":        marked,
	})
}

func (h *AttendanceHandler) HandleActiveForTeacher(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	user, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	res, err := h.attendanceService.ActiveSessionForTeacher(c, user.Email)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_active_session")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
}

func (h *AttendanceHandler) HandleActiveForStudent(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	user, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	res, err := h.attendanceService.ActiveSessionsFor(c, user.StudentNumber)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "list_active_sessions")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{"sessions": res})
}

func (h *AttendanceHandler) HandleTracking(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	user, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	res, err := h.attendanceService.TrackingFor(c, user.StudentNumber)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_attendance_tracking")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{"courses": res})
}
