package config

import (
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/studychannel/studychannel/internal/delivery/http/middleware"
	"github.com/studychannel/studychannel/internal/exception"
	tracelog "github.com/studychannel/studychannel/internal/middleware"
)

// UseMiddleware installs the global middleware chain in the order requests
// pass through it.
func UseMiddleware(app *fiber.App, config *koanf.Koanf, log *zap.Logger) {
	app.Use(exception.Recovery(log))

	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/api/health" || c.Path() == "/metrics"
	})))
	app.Use(tracelog.TraceLoggerMiddleware(log))

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(middleware.SetupCORS(config.String("CORS_ALLOW_ORIGINS")))
	app.Use(middleware.SetupRateLimiter(log, config.Int("RATE_LIMIT_PER_MINUTE")))
}
