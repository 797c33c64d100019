package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/studychannel/studychannel/internal/model"
	"github.com/studychannel/studychannel/internal/usecase"
	"github.com/studychannel/studychannel/internal/util"
)

type AdminController struct {
	AdminUsecase *usecase.AdminUsecase
	Log          *zap.Logger
}

func NewAdminController(adminUsecase *usecase.AdminUsecase, zap *zap.Logger) *AdminController {
	return &AdminController{
		AdminUsecase: adminUsecase,
		Log:          zap,
	}
}

func (controller *AdminController) Login(ctx *fiber.Ctx) error {
	var payload model.AdminLoginRequest
	err := util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return sendInvalidBody(ctx)
	}

	token, err := controller.AdminUsecase.Login(ctx.UserContext(), payload)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, token)
}

func (controller *AdminController) Logout(ctx *fiber.Ctx) error {
	token, _ := ctx.Locals("adminToken").(string)

	err := controller.AdminUsecase.Logout(ctx.UserContext(), token)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseNoData(ctx)
}
