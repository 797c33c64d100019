package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/studychannel/studychannel/internal/model"
	"github.com/studychannel/studychannel/internal/usecase"
	"github.com/studychannel/studychannel/internal/util"
)

type CommentController struct {
	CommentUsecase *usecase.CommentUsecase
	Log            *zap.Logger
	Config         *koanf.Koanf
}

func NewCommentController(commentUsecase *usecase.CommentUsecase, zap *zap.Logger, koanf *koanf.Koanf) *CommentController {
	return &CommentController{
		CommentUsecase: commentUsecase,
		Log:            zap,
		Config:         koanf,
	}
}

func (controller *CommentController) GetComments(ctx *fiber.Ctx) error {
	query := usecase.CommentQuery{
		Sort:  ctx.Query("sort"),
		Order: ctx.Query("order"),
		Limit: ctx.QueryInt("limit"),
	}

	comments, err := controller.CommentUsecase.GetComments(ctx.UserContext(), ctx.Params("threadId"), query)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, model.CommentListResponse{Data: comments})
}

func (controller *CommentController) CreateComment(ctx *fiber.Ctx) error {
	var payload model.CommentCreateRequest
	err := util.ReadRequestBody(ctx, &payload)
	if err != nil {
		return sendInvalidBody(ctx)
	}

	comment, err := controller.CommentUsecase.CreateComment(ctx.UserContext(), ctx.Params("threadId"), payload)
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(comment)
}
