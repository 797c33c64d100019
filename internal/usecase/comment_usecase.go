package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/studychannel/studychannel/internal/commenttree"
	"github.com/studychannel/studychannel/internal/constant"
	"github.com/studychannel/studychannel/internal/metrics"
	"github.com/studychannel/studychannel/internal/model"
	"github.com/studychannel/studychannel/internal/observability"
	"github.com/studychannel/studychannel/internal/render"
	"github.com/studychannel/studychannel/internal/repository"
	"github.com/studychannel/studychannel/internal/util"
)

type CommentUsecase struct {
	CommentRepository *repository.CommentRepository
	ThreadRepository  *repository.ThreadRepository
	Renderer          *render.Renderer
	DB                *pgxpool.Pool
	Log               *zap.Logger
	Config            *koanf.Koanf
	Metrics           *metrics.Metrics
}

func NewCommentUsecase(commentRepository *repository.CommentRepository, threadRepository *repository.ThreadRepository, renderer *render.Renderer, db *pgxpool.Pool, zap *zap.Logger, koanf *koanf.Koanf, metrics *metrics.Metrics) *CommentUsecase {
	return &CommentUsecase{
		CommentRepository: commentRepository,
		ThreadRepository:  threadRepository,
		Renderer:          renderer,
		DB:                db,
		Log:               zap,
		Config:            koanf,
		Metrics:           metrics,
	}
}

// CommentQuery mirrors the list query string. Only created_at ordering is
// supported.
type CommentQuery struct {
	Sort  string
	Order string
	Limit int
}

func (q CommentQuery) validate() error {
	if q.Sort != "" && q.Sort != "created_at" {
		return &model.ValidationError{Code: constant.ERR_VALIDATION_CODE, Message: "Sort must be created_at", Param: "sort"}
	}

	if q.Order != "" && q.Order != "asc" && q.Order != "desc" {
		return &model.ValidationError{Code: constant.ERR_VALIDATION_CODE, Message: "Order must be asc or desc", Param: "order"}
	}

	return nil
}

// defaultLimit is COMMENT_FETCH_LIMIT when set within bounds.
func (usecase *CommentUsecase) defaultLimit() int {
	if usecase.Config == nil {
		return constant.DEFAULT_COMMENT_FETCH_LIMIT
	}

	return clampLimit(usecase.Config.Int("COMMENT_FETCH_LIMIT"), constant.DEFAULT_COMMENT_FETCH_LIMIT, constant.MAX_COMMENT_FETCH_LIMIT)
}

func (usecase *CommentUsecase) GetComments(ctx context.Context, threadIdParam string, query CommentQuery) ([]model.Comment, error) {
	threadId, err := parseId(threadIdParam, "threadId", "thread")
	if err != nil {
		return nil, err
	}

	err = query.validate()
	if err != nil {
		return nil, err
	}

	err = usecase.requireThread(ctx, threadId)
	if err != nil {
		return nil, err
	}

	limit := clampLimit(query.Limit, usecase.defaultLimit(), constant.MAX_COMMENT_FETCH_LIMIT)

	return usecase.CommentRepository.GetComments(ctx, threadId, query.Order == "desc", limit)
}

func (usecase *CommentUsecase) requireThread(ctx context.Context, threadId uuid.UUID) error {
	result, err := usecase.ThreadRepository.CheckThreadExists(ctx, threadId)
	if err != nil {
		return err
	}

	if result == 0 {
		return notFound("threadId", "Thread not found")
	}

	return nil
}

// CreateComment stores a comment under the next sequential number of its
// thread. The path thread id wins over the body; a mismatch is rejected.
func (usecase *CommentUsecase) CreateComment(ctx context.Context, threadIdParam string, payload model.CommentCreateRequest) (model.Comment, error) {
	if payload.ThreadId == "" {
		payload.ThreadId = threadIdParam
	}

	if payload.ThreadId != threadIdParam {
		return model.Comment{}, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Thread id does not match the path",
			Param:   "thread_id",
		}
	}

	err := payload.Validate()
	if err != nil {
		return model.Comment{}, err
	}

	threadId, err := parseId(threadIdParam, "threadId", "thread")
	if err != nil {
		return model.Comment{}, err
	}

	var parentId *uuid.UUID
	if payload.ParentCommentId != nil {
		parsed, err := parseId(*payload.ParentCommentId, "parent_comment_id", "parent comment")
		if err != nil {
			return model.Comment{}, err
		}

		result, err := usecase.CommentRepository.CheckCommentInThread(ctx, parsed, threadId)
		if err != nil {
			return model.Comment{}, err
		}

		if result == 0 {
			return model.Comment{}, notFound("parent_comment_id", "Parent comment not found in this thread")
		}

		parentId = &parsed
	}

	images := payload.Images
	if images == nil {
		images = []string{}
	}

	commentId := uuid.New()
	comment := model.Comment{
		Id:              commentId.String(),
		ThreadId:        threadIdParam,
		ParentCommentId: payload.ParentCommentId,
		Content:         payload.Content,
		Images:          images,
		AuthorName:      util.NormalizeAuthorName(payload.AuthorName),
		UserFingerprint: util.HashFingerprint(payload.UserFingerprint),
		CreatedAt:       time.Now().UTC(),
	}

	commited := false

	tx, err := usecase.DB.Begin(ctx)
	if err != nil {
		return model.Comment{}, err
	}

	defer func() {
		if !commited {
			_ = tx.Rollback(ctx)
		}
	}()

	number, err := usecase.CommentRepository.NextCommentNumber(ctx, tx, threadId)
	if err != nil {
		return model.Comment{}, err
	}

	if number == 0 {
		return model.Comment{}, notFound("threadId", "Thread not found")
	}
	comment.CommentNumber = number

	err = usecase.CommentRepository.CreateComment(ctx, tx, commentId, threadId, parentId, comment)
	if err != nil {
		return model.Comment{}, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return model.Comment{}, err
	}

	commited = true

	err = usecase.ThreadRepository.InvalidateThreadCache(ctx)
	if err != nil {
		observability.WithContext(ctx, usecase.Log).Warn("failed to invalidate thread cache", zap.Error(err))
	}
	usecase.Metrics.CommentCreated()

	return comment, nil
}

// ViewQuery selects what a server-side render of a thread shows.
type ViewQuery struct {
	FocusID       string
	ReplyTargetID string
	Fingerprint   string
}

// RenderThread loads a thread and renders its comment tree the way a fresh
// browsing session would see it.
func (usecase *CommentUsecase) RenderThread(ctx context.Context, threadIdParam string, query ViewQuery) (model.Thread, render.View, error) {
	threadId, err := parseId(threadIdParam, "threadId", "thread")
	if err != nil {
		return model.Thread{}, render.View{}, err
	}

	thread, err := usecase.ThreadRepository.GetThread(ctx, threadId, false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Thread{}, render.View{}, notFound("threadId", "Thread not found")
		}
		return model.Thread{}, render.View{}, err
	}

	comments, err := usecase.CommentRepository.GetComments(ctx, threadId, false, constant.MAX_COMMENT_FETCH_LIMIT)
	if err != nil {
		return model.Thread{}, render.View{}, err
	}

	return thread, BuildView(usecase.Renderer, comments, query, time.Now()), nil
}

// BuildView renders comments focused on query.FocusID when it names a known
// comment, or the whole forest otherwise.
func BuildView(renderer *render.Renderer, comments []model.Comment, query ViewQuery, now time.Time) render.View {
	graph := commenttree.Build(comments)

	target := query.ReplyTargetID
	if _, ok := graph.Get(target); !ok {
		target = query.FocusID
	}

	st := render.State{
		ViewerID:      util.HashFingerprint(query.Fingerprint),
		ReplyTargetID: target,
		Now:           now,
	}

	var nodes []*commenttree.Node
	if query.FocusID != "" {
		if n, ok := graph.Subtree(query.FocusID); ok {
			nodes = []*commenttree.Node{n}
		}
	} else {
		nodes = graph.Tree()
	}

	view := renderer.RenderTopLevel(nodes, st)
	banner := renderer.Banner(graph, target, query.FocusID)
	view.Banner = &banner

	return view
}
