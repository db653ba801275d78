package courseHandler

import (
	"AttendanceGolang/internal/api/course"
	contextPkg "AttendanceGolang/pkg/context"
	"AttendanceGolang/pkg/handlerUtil"
	jwtPkg "AttendanceGolang/pkg/jwt"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
	"time"
)

func (h *CourseHandler) HandleCreate(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req course.CreateCourseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	res, err := h.courseService.CreateCourse(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "create_course")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, res)
	}
}

func (h *CourseHandler) HandleListAll(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	res, err := h.courseService.ListAll(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "list_courses")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{"courses": res})
}

func (h *CourseHandler) HandleListMine(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	user, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	res, err := h.courseService.ListByTeacher(c, user.Email)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "list_teacher_courses")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{"courses": res})
}

func (h *CourseHandler) HandleGetByCode(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	res, err := h.courseService.GetByCode(c, ctx.Params("code"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_course")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
}

func (h *CourseHandler) HandleUpdate(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req course.UpdateCourseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.courseService.UpdateCourse(c, ctx.Params("code"), req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "update_course")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, nil)
	}
}

func (h *CourseHandler) HandleDelete(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	if err := h.courseService.DeleteCourse(c, ctx.Params("code")); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "delete_course")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, nil)
}
