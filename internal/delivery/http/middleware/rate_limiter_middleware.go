package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"

	"github.com/studychannel/studychannel/internal/constant"
)

func rateLimited(ctx *fiber.Ctx, message string) error {
	return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    constant.ERR_RATE_LIMITED_ERROR,
			"message": message,
			"param":   "",
		},
	})
}

// SetupRateLimiter limits every client IP to max requests per minute.
func SetupRateLimiter(logger *zap.Logger, max int) fiber.Handler {
	if max <= 0 {
		max = 120
	}

	return limiter.New(limiter.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/api/health" || c.Path() == "/metrics"
		},
		Max:        max,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			logger.Warn("Rate limit exceeded", zap.String("ip", c.IP()))
			return rateLimited(c, "Rate limit exceeded, please try again later")
		},
	})
}

// SetupAuthRateLimiter is the stricter limiter in front of admin login.
func SetupAuthRateLimiter(logger *zap.Logger) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        5,
		Expiration: 5 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			logger.Warn("Auth rate limit exceeded", zap.String("ip", c.IP()))
			return rateLimited(c, "Too many authentication attempts, please try again later")
		},
	})
}
