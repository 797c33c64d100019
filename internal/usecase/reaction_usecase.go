package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/studychannel/studychannel/internal/constant"
	"github.com/studychannel/studychannel/internal/metrics"
	"github.com/studychannel/studychannel/internal/model"
	"github.com/studychannel/studychannel/internal/observability"
	"github.com/studychannel/studychannel/internal/repository"
	"github.com/studychannel/studychannel/internal/util"
)

type ReactionUsecase struct {
	ReactionRepository *repository.ReactionRepository
	ThreadRepository   *repository.ThreadRepository
	Log                *zap.Logger
	Metrics            *metrics.Metrics
}

func NewReactionUsecase(reactionRepository *repository.ReactionRepository, threadRepository *repository.ThreadRepository, zap *zap.Logger, metrics *metrics.Metrics) *ReactionUsecase {
	return &ReactionUsecase{
		ReactionRepository: reactionRepository,
		ThreadRepository:   threadRepository,
		Log:                zap,
		Metrics:            metrics,
	}
}

// Like registers one like per fingerprint and target. A repeat like is
// reported with the ALREADY_LIKED code so clients can tell it apart.
func (usecase *ReactionUsecase) Like(ctx context.Context, payload model.LikeCreateRequest) (model.LikeResponse, error) {
	err := payload.Validate()
	if err != nil {
		return model.LikeResponse{}, err
	}

	targetId, err := parseId(payload.TargetId, "target_id", "target")
	if err != nil {
		return model.LikeResponse{}, err
	}

	likeCount, err := usecase.ReactionRepository.RegisterLike(ctx, payload.TargetType, targetId, util.HashFingerprint(payload.UserFingerprint))
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateLike) {
			usecase.Metrics.Like(metrics.OutcomeDuplicate)
			return model.LikeResponse{}, &model.ValidationError{
				Code:    constant.ERR_ALREADY_LIKED_ERROR,
				Message: "You have already liked this " + payload.TargetType,
				Param:   "target_id",
			}
		}

		if errors.Is(err, repository.ErrTargetNotFound) {
			return model.LikeResponse{}, notFound("target_id", "Like target not found")
		}

		usecase.Metrics.Like(metrics.OutcomeError)
		return model.LikeResponse{}, err
	}

	usecase.Metrics.Like(metrics.OutcomeSuccess)

	return model.LikeResponse{LikeCount: likeCount}, nil
}

func (usecase *ReactionUsecase) ToggleFavorite(ctx context.Context, threadIdParam string, payload model.FavoriteToggleRequest) (model.FavoriteToggleResponse, error) {
	err := payload.Validate()
	if err != nil {
		return model.FavoriteToggleResponse{}, err
	}

	threadId, err := parseId(threadIdParam, "threadId", "thread")
	if err != nil {
		return model.FavoriteToggleResponse{}, err
	}

	result, err := usecase.ThreadRepository.CheckThreadExists(ctx, threadId)
	if err != nil {
		return model.FavoriteToggleResponse{}, err
	}

	if result == 0 {
		return model.FavoriteToggleResponse{}, notFound("threadId", "Thread not found")
	}

	favorited, err := usecase.ReactionRepository.ToggleFavorite(ctx, threadId, util.HashFingerprint(payload.UserFingerprint))
	if err != nil {
		return model.FavoriteToggleResponse{}, err
	}

	err = usecase.ThreadRepository.InvalidateThreadCache(ctx)
	if err != nil {
		observability.WithContext(ctx, usecase.Log).Warn("failed to invalidate thread cache", zap.Error(err))
	}
	usecase.Metrics.FavoriteToggled(favorited)

	return model.FavoriteToggleResponse{Favorited: favorited}, nil
}

func (usecase *ReactionUsecase) GetFavorites(ctx context.Context, fingerprint string, limit int) ([]model.Thread, error) {
	if fingerprint == "" {
		return nil, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Fingerprint is required",
			Param:   "fingerprint",
		}
	}

	limit = clampLimit(limit, constant.DEFAULT_LIMIT, constant.MAX_LIMIT)

	return usecase.ReactionRepository.GetFavoriteThreads(ctx, util.HashFingerprint(fingerprint), limit)
}
