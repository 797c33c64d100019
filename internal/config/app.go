package config

import (
	"context"

	http "github.com/studychannel/studychannel/internal/delivery/http"
	"github.com/studychannel/studychannel/internal/delivery/http/middleware"
	"github.com/studychannel/studychannel/internal/delivery/http/route"
	"github.com/studychannel/studychannel/internal/metrics"
	"github.com/studychannel/studychannel/internal/render"
	"github.com/studychannel/studychannel/internal/repository"
	"github.com/studychannel/studychannel/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knadh/koanf/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type ServerConfig struct {
	Router   *fiber.App
	DB       *pgxpool.Pool
	DBCache  *redis.Client
	Log      *zap.Logger
	Config   *koanf.Koanf
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

// Server wires every layer onto config.Router. The returned function waits,
// bounded by its context, for background work such as report mails and must
// run before shutdown.
func Server(config *ServerConfig) func(context.Context) error {
	renderer := render.NewRenderer()

	threadRepository := repository.NewThreadRepository(config.Log, config.DB, config.DBCache)
	commentRepository := repository.NewCommentRepository(config.Log, config.DB, config.DBCache)
	reactionRepository := repository.NewReactionRepository(config.Log, config.DB, config.DBCache)
	moderationRepository := repository.NewModerationRepository(config.Log, config.DB, config.DBCache)
	adminRepository := repository.NewAdminRepository(config.Log, config.DBCache)

	notifier := usecase.NewReportNotifier(NewMailConfig(config.Config), config.Config.String("MODERATOR_EMAIL"), config.Log, config.Metrics)
	if timeout := config.Config.Duration("MAIL_SEND_TIMEOUT"); timeout > 0 {
		notifier.Timeout = timeout
	}

	threadUsecase := usecase.NewThreadUsecase(threadRepository, config.DB, config.Log, config.Config, config.Metrics)
	commentUsecase := usecase.NewCommentUsecase(commentRepository, threadRepository, renderer, config.DB, config.Log, config.Config, config.Metrics)
	reactionUsecase := usecase.NewReactionUsecase(reactionRepository, threadRepository, config.Log, config.Metrics)
	moderationUsecase := usecase.NewModerationUsecase(moderationRepository, commentRepository, notifier, config.DB, config.Log, config.Metrics)
	adminUsecase := usecase.NewAdminUsecase(adminRepository, config.Log, config.Config)

	authMiddleware := middleware.NewAuthMiddleware(config.Router, config.Log, config.Config, adminUsecase)

	routeConfig := route.RouteConfig{
		App:                  config.Router,
		AuthMiddleware:       authMiddleware,
		AuthRateLimiter:      middleware.SetupAuthRateLimiter(config.Log),
		Gatherer:             config.Gatherer,
		ThreadController:     http.NewThreadController(threadUsecase, config.Log, config.Config),
		CommentController:    http.NewCommentController(commentUsecase, config.Log, config.Config),
		PageController:       http.NewPageController(commentUsecase, config.Log),
		ReactionController:   http.NewReactionController(reactionUsecase, config.Log),
		ModerationController: http.NewModerationController(moderationUsecase, config.Log),
		AdminController:      http.NewAdminController(adminUsecase, config.Log),
	}

	routeConfig.SetupRoute()

	return moderationUsecase.Close
}
