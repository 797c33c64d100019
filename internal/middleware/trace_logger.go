package middleware

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/studychannel/studychannel/internal/observability"
)

// TraceLoggerMiddleware stores a logger tagged with the request's trace and
// span ids in c.Locals("logger").
func TraceLoggerMiddleware(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("logger", observability.WithContext(c.UserContext(), logger))
		return c.Next()
	}
}
