package middleware

import (
	"errors"

	"github.com/studychannel/studychannel/internal/model"
	"github.com/studychannel/studychannel/internal/usecase"
	"github.com/studychannel/studychannel/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

type AuthMiddleware struct {
	App          *fiber.App
	Log          *zap.Logger
	Config       *koanf.Koanf
	AdminUsecase *usecase.AdminUsecase
}

func NewAuthMiddleware(app *fiber.App, zap *zap.Logger, koanf *koanf.Koanf, adminUsecase *usecase.AdminUsecase) *AuthMiddleware {
	return &AuthMiddleware{
		App:          app,
		Log:          zap,
		Config:       koanf,
		AdminUsecase: adminUsecase,
	}
}

// ProtectedRoute admits requests carrying a live admin token and stores the
// raw token in locals for logout.
func (middleware *AuthMiddleware) ProtectedRoute() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		var validationErr *model.ValidationError

		token, err := middleware.AdminUsecase.Authorize(ctx.UserContext(), ctx.Get("Authorization"))
		if err != nil {
			if errors.As(err, &validationErr) {
				return util.SendErrorResponseUnauthorized(ctx, err)
			}

			return util.SendErrorResponseInternalServer(ctx, middleware.Log, err)
		}

		ctx.Locals("adminToken", token)

		return ctx.Next()
	}
}
