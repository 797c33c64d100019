package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/studychannel/studychannel/internal/constant"
	"github.com/studychannel/studychannel/internal/middleware"
	"github.com/studychannel/studychannel/internal/model"
	"github.com/studychannel/studychannel/internal/util"
)

// sendUsecaseError writes err with the status its code implies. Anything that
// is not a ValidationError is logged and reported as a 500.
func sendUsecaseError(ctx *fiber.Ctx, log *zap.Logger, err error) error {
	var validationErr *model.ValidationError
	if !errors.As(err, &validationErr) {
		return util.SendErrorResponseInternalServer(ctx, requestLogger(ctx, log), err)
	}

	switch validationErr.Code {
	case constant.ERR_NOT_FOUND_ERROR:
		return util.SendErrorResponseNotFound(ctx, validationErr)
	case constant.ERR_ALREADY_LIKED_ERROR:
		return util.SendErrorResponseConflict(ctx, validationErr)
	case constant.ERR_UNAUTHORIZED_ERROR:
		return util.SendErrorResponseUnauthorized(ctx, validationErr)
	case constant.ERR_FORBIDDEN_ERROR:
		return util.SendErrorResponseForbidden(ctx, validationErr)
	default:
		return util.SendErrorResponse(ctx, validationErr)
	}
}

func sendInvalidBody(ctx *fiber.Ctx) error {
	return util.SendErrorResponse(ctx, &model.ValidationError{
		Code:    constant.ERR_INVALID_REQUEST_BODY_ERROR_CODE,
		Message: constant.ERR_INVALID_REQUEST_BODY_MESSAGE,
	})
}

// requestLogger prefers the trace-aware logger of the current request.
func requestLogger(ctx *fiber.Ctx, fallback *zap.Logger) *zap.Logger {
	if ctx.Locals("logger") == nil {
		return fallback
	}
	return middleware.GetLoggerFromContext(ctx)
}
