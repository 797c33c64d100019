package config

import (
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/knadh/koanf/v2"

	"github.com/studychannel/studychannel/internal/constant"
	"github.com/studychannel/studychannel/internal/model"
)

func NewFiber(config *koanf.Koanf) *fiber.App {
	readTimeout := config.Duration("HTTP_READ_TIMEOUT")
	if readTimeout <= 0 {
		readTimeout = 10 * time.Second
	}

	writeTimeout := config.Duration("HTTP_WRITE_TIMEOUT")
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}

	app := fiber.New(fiber.Config{
		AppName:               "studychannel",
		BodyLimit:             1 * 1024 * 1024, // 1MB
		IdleTimeout:           30 * time.Second,
		ReadTimeout:           readTimeout,
		WriteTimeout:          writeTimeout,
		DisableStartupMessage: true,
		ReduceMemoryUsage:     true,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          errorHandler,
	})

	return app
}

// errorHandler keeps router errors (unknown route, oversized body) in the
// same envelope the controllers write.
func errorHandler(ctx *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	body := &model.ValidationError{
		Code:    constant.ERR_INTERNAL_SERVER_ERROR_CODE,
		Message: constant.ERR_INTERNAL_SERVER_ERROR_MESSAGE,
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
		body.Message = fiberErr.Message
		switch fiberErr.Code {
		case fiber.StatusNotFound:
			body.Code = constant.ERR_NOT_FOUND_ERROR
		case fiber.StatusRequestEntityTooLarge, fiber.StatusBadRequest:
			body.Code = constant.ERR_INVALID_REQUEST_BODY_ERROR_CODE
		}
	}

	return ctx.Status(status).JSON(fiber.Map{"error": body})
}
