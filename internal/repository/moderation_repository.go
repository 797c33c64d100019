package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/studychannel/studychannel/internal/model"
)

type ModerationRepository struct {
	Log     *zap.Logger
	DB      *pgxpool.Pool
	DBCache *redis.Client
}

func NewModerationRepository(zap *zap.Logger, db *pgxpool.Pool, dbCache *redis.Client) *ModerationRepository {
	return &ModerationRepository{
		Log:     zap,
		DB:      db,
		DBCache: dbCache,
	}
}

func (repository *ModerationRepository) CheckTargetExists(ctx context.Context, targetType string, targetId uuid.UUID) (int, error) {
	query := "SELECT 1 FROM comments WHERE id = $1 AND is_deleted = FALSE"
	if targetType == model.LikeTargetThread {
		query = "SELECT 1 FROM threads WHERE id = $1 AND is_deleted = FALSE"
	}

	var exists int
	err := repository.DB.QueryRow(ctx, query, targetId).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return exists, nil
		}

		return exists, err
	}

	return exists, nil
}

func (repository *ModerationRepository) CreateReport(ctx context.Context, reportId uuid.UUID, targetId uuid.UUID, report model.Report) error {
	query := "INSERT INTO reports (id, target_type, target_id, reason, user_fingerprint, status, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)"

	_, err := repository.DB.Exec(ctx, query, reportId, report.TargetType, targetId, report.Reason, report.UserFingerprint, report.Status, report.CreatedAt)
	if err != nil {
		return err
	}

	return nil
}

func (repository *ModerationRepository) GetReports(ctx context.Context, status string, limit int) ([]model.Report, error) {
	query := `
		SELECT id::text, target_type, target_id::text, reason, user_fingerprint, status, created_at
		FROM reports
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := repository.DB.Query(ctx, query, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := []model.Report{}
	for rows.Next() {
		var report model.Report
		err := rows.Scan(&report.Id, &report.TargetType, &report.TargetId, &report.Reason, &report.UserFingerprint, &report.Status, &report.CreatedAt)
		if err != nil {
			return nil, err
		}

		reports = append(reports, report)
	}

	return reports, rows.Err()
}

// UpdateReportStatus only moves open reports.
func (repository *ModerationRepository) UpdateReportStatus(ctx context.Context, reportId uuid.UUID, status string, now time.Time) (int64, error) {
	query := "UPDATE reports SET status = $1, resolved_at = $2 WHERE id = $3 AND status = 'open'"

	tag, err := repository.DB.Exec(ctx, query, status, now, reportId)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func (repository *ModerationRepository) CreateDeletionRequest(ctx context.Context, requestId uuid.UUID, commentId uuid.UUID, request model.DeletionRequest) error {
	query := "INSERT INTO deletion_requests (id, comment_id, reason, user_fingerprint, status, created_at) VALUES ($1, $2, $3, $4, $5, $6)"

	_, err := repository.DB.Exec(ctx, query, requestId, commentId, request.Reason, request.UserFingerprint, request.Status, request.CreatedAt)
	if err != nil {
		return err
	}

	return nil
}

func (repository *ModerationRepository) GetDeletionRequests(ctx context.Context, status string, limit int) ([]model.DeletionRequest, error) {
	query := `
		SELECT id::text, comment_id::text, reason, user_fingerprint, status, created_at
		FROM deletion_requests
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := repository.DB.Query(ctx, query, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []model.DeletionRequest{}
	for rows.Next() {
		var request model.DeletionRequest
		err := rows.Scan(&request.Id, &request.CommentId, &request.Reason, &request.UserFingerprint, &request.Status, &request.CreatedAt)
		if err != nil {
			return nil, err
		}

		requests = append(requests, request)
	}

	return requests, rows.Err()
}

// LockPendingDeletionRequest returns the comment id of a pending request and
// holds its row lock until tx ends. An empty id means no pending request.
func (repository *ModerationRepository) LockPendingDeletionRequest(ctx context.Context, tx pgx.Tx, requestId uuid.UUID) (uuid.UUID, error) {
	query := "SELECT comment_id FROM deletion_requests WHERE id = $1 AND status = 'pending' FOR UPDATE"

	var commentId uuid.UUID
	err := tx.QueryRow(ctx, query, requestId).Scan(&commentId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, nil
		}

		return uuid.Nil, err
	}

	return commentId, nil
}

func (repository *ModerationRepository) UpdateDeletionRequestStatus(ctx context.Context, tx pgx.Tx, requestId uuid.UUID, status string, now time.Time) (int64, error) {
	query := "UPDATE deletion_requests SET status = $1, decided_at = $2 WHERE id = $3 AND status = 'pending'"

	tag, err := tx.Exec(ctx, query, status, now, requestId)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}
