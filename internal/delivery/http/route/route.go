package route

import (
	"github.com/studychannel/studychannel/internal/delivery/http"
	"github.com/studychannel/studychannel/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouteConfig struct {
	App                  *fiber.App
	AuthMiddleware       *middleware.AuthMiddleware
	AuthRateLimiter      fiber.Handler
	Gatherer             prometheus.Gatherer
	ThreadController     *http.ThreadController
	CommentController    *http.CommentController
	PageController       *http.PageController
	ReactionController   *http.ReactionController
	ModerationController *http.ModerationController
	AdminController      *http.AdminController
}

func (c *RouteConfig) SetupRoute() {
	if c.Gatherer != nil {
		c.App.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(c.Gatherer, promhttp.HandlerOpts{})))
	}

	c.App.Get("/threads/:threadId", c.PageController.GetThreadPage)

	api := c.App.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	threadGroup := api.Group("/threads")
	threadGroup.Get("/", c.ThreadController.GetThreads)
	threadGroup.Post("/", c.ThreadController.CreateThread)
	threadGroup.Get("/:threadId", c.ThreadController.GetThread)
	threadGroup.Get("/:threadId/comments", c.CommentController.GetComments)
	threadGroup.Post("/:threadId/comments", c.CommentController.CreateComment)
	threadGroup.Get("/:threadId/view", c.PageController.GetThreadView)
	threadGroup.Post("/:threadId/favorites", c.ReactionController.ToggleFavorite)

	api.Post("/likes", c.ReactionController.Like)
	api.Get("/favorites", c.ReactionController.GetFavorites)
	api.Post("/reports", c.ModerationController.CreateReport)
	api.Post("/deletion-requests", c.ModerationController.CreateDeletionRequest)

	adminPublicGroup := api.Group("/admin")
	if c.AuthRateLimiter != nil {
		adminPublicGroup.Post("/login", c.AuthRateLimiter, c.AdminController.Login)
	} else {
		adminPublicGroup.Post("/login", c.AdminController.Login)
	}

	adminGroup := api.Group("/admin", c.AuthMiddleware.ProtectedRoute())
	adminGroup.Post("/logout", c.AdminController.Logout)
	adminGroup.Get("/threads", c.ThreadController.GetAllThreads)
	adminGroup.Delete("/threads/:threadId", c.ThreadController.DeleteThread)
	adminGroup.Post("/threads/:threadId/restore", c.ThreadController.RestoreThread)
	adminGroup.Get("/reports", c.ModerationController.GetReports)
	adminGroup.Post("/reports/:reportId/resolve", c.ModerationController.ResolveReport)
	adminGroup.Get("/deletion-requests", c.ModerationController.GetDeletionRequests)
	adminGroup.Post("/deletion-requests/:requestId/approve", c.ModerationController.ApproveDeletionRequest)
	adminGroup.Post("/deletion-requests/:requestId/reject", c.ModerationController.RejectDeletionRequest)
}
