package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/studychannel/studychannel/internal/constant"
	"github.com/studychannel/studychannel/internal/metrics"
	"github.com/studychannel/studychannel/internal/model"
	"github.com/studychannel/studychannel/internal/observability"
	"github.com/studychannel/studychannel/internal/repository"
	"github.com/studychannel/studychannel/internal/util"
)

const defaultThreadCacheTTL = 30 * time.Second

type ThreadUsecase struct {
	ThreadRepository *repository.ThreadRepository
	DB               *pgxpool.Pool
	Log              *zap.Logger
	Config           *koanf.Koanf
	Metrics          *metrics.Metrics
}

func NewThreadUsecase(threadRepository *repository.ThreadRepository, db *pgxpool.Pool, zap *zap.Logger, koanf *koanf.Koanf, metrics *metrics.Metrics) *ThreadUsecase {
	return &ThreadUsecase{
		ThreadRepository: threadRepository,
		DB:               db,
		Log:              zap,
		Config:           koanf,
		Metrics:          metrics,
	}
}

func (usecase *ThreadUsecase) cacheTTL() time.Duration {
	ttl := usecase.Config.Duration("THREAD_CACHE_TTL")
	if ttl <= 0 {
		return defaultThreadCacheTTL
	}
	return ttl
}

func (usecase *ThreadUsecase) CreateThread(ctx context.Context, payload model.ThreadCreateRequest) (model.Thread, error) {
	err := payload.Validate()
	if err != nil {
		return model.Thread{}, err
	}

	threadId := uuid.New()
	thread := model.Thread{
		Id:              threadId.String(),
		Title:           strings.TrimSpace(payload.Title),
		Body:            payload.Body,
		AuthorName:      util.NormalizeAuthorName(payload.AuthorName),
		UserFingerprint: util.HashFingerprint(payload.UserFingerprint),
		CreatedAt:       time.Now().UTC(),
	}

	err = usecase.ThreadRepository.CreateThread(ctx, threadId, thread)
	if err != nil {
		return model.Thread{}, err
	}

	usecase.invalidateCache(ctx)
	usecase.Metrics.ThreadCreated()

	return thread, nil
}

func (usecase *ThreadUsecase) GetThread(ctx context.Context, threadIdParam string) (model.Thread, error) {
	threadId, err := parseId(threadIdParam, "threadId", "thread")
	if err != nil {
		return model.Thread{}, err
	}

	thread, err := usecase.ThreadRepository.GetThread(ctx, threadId, false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Thread{}, notFound("threadId", "Thread not found")
		}
		return model.Thread{}, err
	}

	return thread, nil
}

// GetThreads pages threads newest first. The first page is served from Redis
// while fresh; a cache failure only costs a database read.
func (usecase *ThreadUsecase) GetThreads(ctx context.Context, limit int, rawCursor string) (model.ThreadListResponse, error) {
	return usecase.getThreads(ctx, limit, rawCursor, false)
}

func (usecase *ThreadUsecase) GetAllThreads(ctx context.Context, limit int, rawCursor string) (model.ThreadListResponse, error) {
	return usecase.getThreads(ctx, limit, rawCursor, true)
}

func (usecase *ThreadUsecase) getThreads(ctx context.Context, limit int, rawCursor string, includeDeleted bool) (model.ThreadListResponse, error) {
	log := observability.WithContext(ctx, usecase.Log)
	limit = clampLimit(limit, constant.DEFAULT_LIMIT, constant.MAX_LIMIT)

	cursor, err := util.DecodeCursor(rawCursor)
	if err != nil {
		return model.ThreadListResponse{}, err
	}

	cacheable := cursor.IsZero() && !includeDeleted
	if cacheable {
		threads, ok, err := usecase.ThreadRepository.GetCachedFirstPage(ctx, limit)
		if err != nil {
			log.Warn("failed to read thread cache", zap.Error(err))
		}
		usecase.Metrics.ThreadCacheLookup(ok)
		if ok {
			return usecase.page(threads, limit)
		}
	}

	threads, err := usecase.ThreadRepository.GetThreads(ctx, limit+1, &cursor, includeDeleted)
	if err != nil {
		return model.ThreadListResponse{}, err
	}

	if cacheable {
		err = usecase.ThreadRepository.SetCachedFirstPage(ctx, limit, threads, usecase.cacheTTL())
		if err != nil {
			log.Warn("failed to write thread cache", zap.Error(err))
		}
	}

	return usecase.page(threads, limit)
}

// page trims the extra row fetched to detect a following page.
func (usecase *ThreadUsecase) page(threads []model.Thread, limit int) (model.ThreadListResponse, error) {
	response := model.ThreadListResponse{Data: threads}
	if len(threads) <= limit {
		return response, nil
	}

	response.Data = threads[:limit]
	last := response.Data[limit-1]

	next, err := util.EncodeCursor(model.Cursor{Id: last.Id, CreatedAt: last.CreatedAt})
	if err != nil {
		return model.ThreadListResponse{}, err
	}
	response.Page.NextCursor = next

	return response, nil
}

func (usecase *ThreadUsecase) SetThreadDeleted(ctx context.Context, threadIdParam string, deleted bool) error {
	threadId, err := parseId(threadIdParam, "threadId", "thread")
	if err != nil {
		return err
	}

	affected, err := usecase.ThreadRepository.SetThreadDeleted(ctx, threadId, deleted, time.Now().UTC())
	if err != nil {
		return err
	}

	if affected == 0 {
		return notFound("threadId", "Thread not found")
	}

	observability.WithContext(ctx, usecase.Log).Info("thread moderation state changed",
		zap.String("threadId", threadIdParam), zap.Bool("deleted", deleted))
	usecase.invalidateCache(ctx)

	return nil
}

func (usecase *ThreadUsecase) invalidateCache(ctx context.Context) {
	err := usecase.ThreadRepository.InvalidateThreadCache(ctx)
	if err != nil {
		observability.WithContext(ctx, usecase.Log).Warn("failed to invalidate thread cache", zap.Error(err))
	}
}
