package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/studychannel/studychannel/internal/constant"
	"github.com/studychannel/studychannel/internal/metrics"
	"github.com/studychannel/studychannel/internal/model"
	"github.com/studychannel/studychannel/internal/observability"
	"github.com/studychannel/studychannel/internal/repository"
	"github.com/studychannel/studychannel/internal/util"
)

type ModerationUsecase struct {
	ModerationRepository *repository.ModerationRepository
	CommentRepository    *repository.CommentRepository
	Notifier             *ReportNotifier
	DB                   *pgxpool.Pool
	Log                  *zap.Logger
	Metrics              *metrics.Metrics
}

func NewModerationUsecase(moderationRepository *repository.ModerationRepository, commentRepository *repository.CommentRepository, notifier *ReportNotifier, db *pgxpool.Pool, zap *zap.Logger, metrics *metrics.Metrics) *ModerationUsecase {
	return &ModerationUsecase{
		ModerationRepository: moderationRepository,
		CommentRepository:    commentRepository,
		Notifier:             notifier,
		DB:                   db,
		Log:                  zap,
		Metrics:              metrics,
	}
}

func (usecase *ModerationUsecase) CreateReport(ctx context.Context, payload model.ReportCreateRequest) (model.Report, error) {
	err := payload.Validate()
	if err != nil {
		return model.Report{}, err
	}

	targetId, err := parseId(payload.TargetId, "target_id", "target")
	if err != nil {
		return model.Report{}, err
	}

	result, err := usecase.ModerationRepository.CheckTargetExists(ctx, payload.TargetType, targetId)
	if err != nil {
		return model.Report{}, err
	}

	if result == 0 {
		return model.Report{}, notFound("target_id", "Report target not found")
	}

	reportId := uuid.New()
	report := model.Report{
		Id:              reportId.String(),
		TargetType:      payload.TargetType,
		TargetId:        payload.TargetId,
		Reason:          payload.Reason,
		UserFingerprint: util.HashFingerprint(payload.UserFingerprint),
		Status:          model.ReportStatusOpen,
		CreatedAt:       time.Now().UTC(),
	}

	err = usecase.ModerationRepository.CreateReport(ctx, reportId, targetId, report)
	if err != nil {
		return model.Report{}, err
	}

	usecase.Metrics.Report()
	usecase.Notifier.Notify(report)

	return report, nil
}

// CreateDeletionRequest files a request to remove one's own comment. The
// requester is identified by fingerprint only.
func (usecase *ModerationUsecase) CreateDeletionRequest(ctx context.Context, payload model.DeletionRequestCreateRequest) (model.DeletionRequest, error) {
	err := payload.Validate()
	if err != nil {
		return model.DeletionRequest{}, err
	}

	commentId, err := parseId(payload.CommentId, "comment_id", "comment")
	if err != nil {
		return model.DeletionRequest{}, err
	}

	comment, err := usecase.CommentRepository.GetComment(ctx, commentId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.DeletionRequest{}, notFound("comment_id", "Comment not found")
		}
		return model.DeletionRequest{}, err
	}

	if comment.IsDeleted {
		return model.DeletionRequest{}, notFound("comment_id", "Comment not found")
	}

	fingerprint := util.HashFingerprint(payload.UserFingerprint)
	if comment.UserFingerprint == "" || comment.UserFingerprint != fingerprint {
		return model.DeletionRequest{}, &model.ValidationError{
			Code:    constant.ERR_FORBIDDEN_ERROR,
			Message: "Only the author can request deletion of this comment",
			Param:   "user_fingerprint",
		}
	}

	requestId := uuid.New()
	request := model.DeletionRequest{
		Id:              requestId.String(),
		CommentId:       payload.CommentId,
		Reason:          payload.Reason,
		UserFingerprint: fingerprint,
		Status:          model.DeletionRequestPending,
		CreatedAt:       time.Now().UTC(),
	}

	err = usecase.ModerationRepository.CreateDeletionRequest(ctx, requestId, commentId, request)
	if err != nil {
		return model.DeletionRequest{}, err
	}

	usecase.Metrics.DeletionRequest()

	return request, nil
}

func (usecase *ModerationUsecase) GetReports(ctx context.Context, status string, limit int) ([]model.Report, error) {
	if status == "" {
		status = model.ReportStatusOpen
	}

	limit = clampLimit(limit, constant.DEFAULT_LIMIT, constant.MAX_LIMIT)

	return usecase.ModerationRepository.GetReports(ctx, status, limit)
}

func (usecase *ModerationUsecase) ResolveReport(ctx context.Context, reportIdParam string, payload model.ReportResolveRequest) error {
	err := payload.Validate()
	if err != nil {
		return err
	}

	reportId, err := parseId(reportIdParam, "reportId", "report")
	if err != nil {
		return err
	}

	affected, err := usecase.ModerationRepository.UpdateReportStatus(ctx, reportId, payload.Status, time.Now().UTC())
	if err != nil {
		return err
	}

	if affected == 0 {
		return notFound("reportId", "Open report not found")
	}

	return nil
}

func (usecase *ModerationUsecase) GetDeletionRequests(ctx context.Context, status string, limit int) ([]model.DeletionRequest, error) {
	if status == "" {
		status = model.DeletionRequestPending
	}

	limit = clampLimit(limit, constant.DEFAULT_LIMIT, constant.MAX_LIMIT)

	return usecase.ModerationRepository.GetDeletionRequests(ctx, status, limit)
}

// ApproveDeletionRequest soft-deletes the requested comment and closes the
// request in one transaction.
func (usecase *ModerationUsecase) ApproveDeletionRequest(ctx context.Context, requestIdParam string) error {
	return usecase.closeDeletionRequest(ctx, requestIdParam, model.DeletionRequestApproved)
}

func (usecase *ModerationUsecase) RejectDeletionRequest(ctx context.Context, requestIdParam string) error {
	return usecase.closeDeletionRequest(ctx, requestIdParam, model.DeletionRequestRejected)
}

func (usecase *ModerationUsecase) closeDeletionRequest(ctx context.Context, requestIdParam string, status string) error {
	requestId, err := parseId(requestIdParam, "requestId", "deletion request")
	if err != nil {
		return err
	}

	commited := false

	tx, err := usecase.DB.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if !commited {
			_ = tx.Rollback(ctx)
		}
	}()

	commentId, err := usecase.ModerationRepository.LockPendingDeletionRequest(ctx, tx, requestId)
	if err != nil {
		return err
	}

	if commentId == uuid.Nil {
		return notFound("requestId", "Pending deletion request not found")
	}

	if status == model.DeletionRequestApproved {
		_, err = usecase.CommentRepository.SoftDeleteComment(ctx, tx, commentId)
		if err != nil {
			return err
		}
	}

	_, err = usecase.ModerationRepository.UpdateDeletionRequestStatus(ctx, tx, requestId, status, time.Now().UTC())
	if err != nil {
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return err
	}

	commited = true

	observability.WithContext(ctx, usecase.Log).Info("deletion request closed",
		zap.String("requestId", requestIdParam), zap.String("status", status))

	return nil
}

// Close waits for pending report notifications until ctx is done.
func (usecase *ModerationUsecase) Close(ctx context.Context) error {
	return usecase.Notifier.Wait(ctx)
}
