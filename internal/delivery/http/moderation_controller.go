package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/studychannel/studychannel/internal/model"
	"github.com/studychannel/studychannel/internal/usecase"
	"github.com/studychannel/studychannel/internal/util"
)

type ModerationController struct {
	ModerationUsecase *usecase.ModerationUsecase
	Log               *zap.Logger
}

func NewModerationController(moderationUsecase *usecase.ModerationUsecase, zap *zap.Logger) *ModerationController {
	return &ModerationController{
		ModerationUsecase: moderationUsecase,
		Log:               zap,
	}
}

func (controller *ModerationController) CreateReport(ctx *fiber.Ctx) error {
	var payload model.ReportCreateRequest
	err := util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return sendInvalidBody(ctx)
	}

	report, err := controller.ModerationUsecase.CreateReport(ctx.UserContext(), payload)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(report)
}

func (controller *ModerationController) CreateDeletionRequest(ctx *fiber.Ctx) error {
	var payload model.DeletionRequestCreateRequest
	err := util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return sendInvalidBody(ctx)
	}

	request, err := controller.ModerationUsecase.CreateDeletionRequest(ctx.UserContext(), payload)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(request)
}

func (controller *ModerationController) GetReports(ctx *fiber.Ctx) error {
	reports, err := controller.ModerationUsecase.GetReports(ctx.UserContext(), ctx.Query("status"), ctx.QueryInt("limit"))
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, fiber.Map{"data": reports})
}

func (controller *ModerationController) ResolveReport(ctx *fiber.Ctx) error {
	var payload model.ReportResolveRequest
	err := util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return sendInvalidBody(ctx)
	}

	err = controller.ModerationUsecase.ResolveReport(ctx.UserContext(), ctx.Params("reportId"), payload)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseNoData(ctx)
}

func (controller *ModerationController) GetDeletionRequests(ctx *fiber.Ctx) error {
	requests, err := controller.ModerationUsecase.GetDeletionRequests(ctx.UserContext(), ctx.Query("status"), ctx.QueryInt("limit"))
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, fiber.Map{"data": requests})
}

func (controller *ModerationController) ApproveDeletionRequest(ctx *fiber.Ctx) error {
	err := controller.ModerationUsecase.ApproveDeletionRequest(ctx.UserContext(), ctx.Params("requestId"))
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseNoData(ctx)
}

func (controller *ModerationController) RejectDeletionRequest(ctx *fiber.Ctx) error {
	err := controller.ModerationUsecase.RejectDeletionRequest(ctx.UserContext(), ctx.Params("requestId"))
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseNoData(ctx)
}
