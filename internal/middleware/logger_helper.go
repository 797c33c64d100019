package middleware

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// GetLoggerFromContext returns the logger TraceLoggerMiddleware stored, or a
// no-op logger when the middleware did not run.
func GetLoggerFromContext(c *fiber.Ctx) *zap.Logger {
	if logger, ok := c.Locals("logger").(*zap.Logger); ok {
		return logger
	}

	return zap.NewNop()
}
