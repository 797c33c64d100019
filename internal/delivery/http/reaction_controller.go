package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/studychannel/studychannel/internal/model"
	"github.com/studychannel/studychannel/internal/usecase"
	"github.com/studychannel/studychannel/internal/util"
)

type ReactionController struct {
	ReactionUsecase *usecase.ReactionUsecase
	Log             *zap.Logger
}

func NewReactionController(reactionUsecase *usecase.ReactionUsecase, zap *zap.Logger) *ReactionController {
	return &ReactionController{
		ReactionUsecase: reactionUsecase,
		Log:             zap,
	}
}

func (controller *ReactionController) Like(ctx *fiber.Ctx) error {
	var payload model.LikeCreateRequest
	err := util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return sendInvalidBody(ctx)
	}

	response, err := controller.ReactionUsecase.Like(ctx.UserContext(), payload)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller *ReactionController) ToggleFavorite(ctx *fiber.Ctx) error {
	var payload model.FavoriteToggleRequest
	err := util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return sendInvalidBody(ctx)
	}

	response, err := controller.ReactionUsecase.ToggleFavorite(ctx.UserContext(), ctx.Params("threadId"), payload)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, response)
}

func (controller *ReactionController) GetFavorites(ctx *fiber.Ctx) error {
	threads, err := controller.ReactionUsecase.GetFavorites(ctx.UserContext(), ctx.Query("fingerprint"), ctx.QueryInt("limit"))
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, model.ThreadListResponse{Data: threads})
}
