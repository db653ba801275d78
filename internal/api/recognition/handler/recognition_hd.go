package recognitionHandler

import (
	"AttendanceGolang/internal/api/recognition"
	contextPkg "AttendanceGolang/pkg/context"
	"AttendanceGolang/pkg/handlerUtil"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
	"time"
)

// captureTimeout bounds one capture request. It must exceed the capture
// time budget, otherwise every capture would be cut off as a request
// timeout before it could report its own outcome.
const captureTimeout = 2 * time.Minute

func (h *RecognitionHandler) HandleCapture(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), captureTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req recognition.CaptureRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	res, err := h.recognitionService.RunForSession(c, ctx.Params("sessionID"), req.DeviceID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "run_capture")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
}

func (h *RecognitionHandler) HandleRefreshCache(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	res, err := h.recognitionService.RefreshCache(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "refresh_face_cache")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
}

func (h *RecognitionHandler) HandleCacheStatus(ctx *fiber.Ctx) error {
	errHandler := handlerUtil.New(h.log)
	return errHandler.HandleSuccess(ctx, fiber.StatusOK, h.recognitionService.CacheStatus())
}

func (h *RecognitionHandler) HandleSystemStatus(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	res, err := h.recognitionService.SystemStatus(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_system_status")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
}

func (h *RecognitionHandler) HandleEnrollFace(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 60*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	form, err := ctx.MultipartForm()
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_multipart_form")
	}

	files := form.File["images"]
	if len(files) == 0 {
		return errHandler.HandleValidationError(ctx, requestID, fiber.ErrBadRequest, ctx.Path())
	}

	for _, file := range files {
		if err := h.utils.ValidateImageFile(file); err != nil {
			return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
		}
	}

	res, err := h.recognitionService.EnrollFace(c, ctx.Params("studentNumber"), files)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "enroll_face")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, res)
	}
}

func (h *RecognitionHandler) HandleFacePhoto(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	url, err := h.recognitionService.FacePhotoURL(c, ctx.Params("studentNumber"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_face_photo")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, fiber.Map{"url": url})
}

func (h *RecognitionHandler) HandleDeleteFace(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	if err := h.recognitionService.DeleteFace(c, ctx.Params("studentNumber")); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "delete_face")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, nil)
}
