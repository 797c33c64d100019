package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/studychannel/studychannel/internal/model"
	"github.com/studychannel/studychannel/internal/usecase"
	"github.com/studychannel/studychannel/internal/util"
)

type ThreadController struct {
	ThreadUsecase *usecase.ThreadUsecase
	Log           *zap.Logger
	Config        *koanf.Koanf
}

func NewThreadController(threadUsecase *usecase.ThreadUsecase, zap *zap.Logger, koanf *koanf.Koanf) *ThreadController {
	return &ThreadController{
		ThreadUsecase: threadUsecase,
		Log:           zap,
		Config:        koanf,
	}
}

func (controller *ThreadController) CreateThread(ctx *fiber.Ctx) error {
	var payload model.ThreadCreateRequest
	err := util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return sendInvalidBody(ctx)
	}

	thread, err := controller.ThreadUsecase.CreateThread(ctx.UserContext(), payload)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(thread)
}

func (controller *ThreadController) GetThreads(ctx *fiber.Ctx) error {
	response, err := controller.ThreadUsecase.GetThreads(ctx.UserContext(), ctx.QueryInt("limit"), ctx.Query("cursor"))
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller *ThreadController) GetThread(ctx *fiber.Ctx) error {
	thread, err := controller.ThreadUsecase.GetThread(ctx.UserContext(), ctx.Params("threadId"))
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, thread)
}

func (controller *ThreadController) GetAllThreads(ctx *fiber.Ctx) error {
	response, err := controller.ThreadUsecase.GetAllThreads(ctx.UserContext(), ctx.QueryInt("limit"), ctx.Query("cursor"))
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller *ThreadController) DeleteThread(ctx *fiber.Ctx) error {
	err := controller.ThreadUsecase.SetThreadDeleted(ctx.UserContext(), ctx.Params("threadId"), true)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseNoData(ctx)
}

func (controller *ThreadController) RestoreThread(ctx *fiber.Ctx) error {
	err := controller.ThreadUsecase.SetThreadDeleted(ctx.UserContext(), ctx.Params("threadId"), false)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseNoData(ctx)
}
