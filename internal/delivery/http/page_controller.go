package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/studychannel/studychannel/internal/render"
	"github.com/studychannel/studychannel/internal/usecase"
	"github.com/studychannel/studychannel/internal/util"
)

// PageController serves the rendered thread view, as JSON and as HTML.
type PageController struct {
	CommentUsecase *usecase.CommentUsecase
	Log            *zap.Logger
}

func NewPageController(commentUsecase *usecase.CommentUsecase, zap *zap.Logger) *PageController {
	return &PageController{
		CommentUsecase: commentUsecase,
		Log:            zap,
	}
}

func viewQuery(ctx *fiber.Ctx) usecase.ViewQuery {
	return usecase.ViewQuery{
		FocusID:       ctx.Query("focus"),
		ReplyTargetID: ctx.Query("target"),
		Fingerprint:   ctx.Query("fingerprint"),
	}
}

func (controller *PageController) GetThreadView(ctx *fiber.Ctx) error {
	_, view, err := controller.CommentUsecase.RenderThread(ctx.UserContext(), ctx.Params("threadId"), viewQuery(ctx))
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	return util.SendSuccessResponseWithData(ctx, view)
}

func (controller *PageController) GetThreadPage(ctx *fiber.Ctx) error {
	thread, view, err := controller.CommentUsecase.RenderThread(ctx.UserContext(), ctx.Params("threadId"), viewQuery(ctx))
	if err != nil {
		return sendUsecaseError(ctx, controller.Log, err)
	}

	ctx.Type("html", "utf-8")

	return render.WritePage(ctx, render.NewPage(thread, view))
}
