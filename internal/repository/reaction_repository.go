package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/studychannel/studychannel/internal/model"
)

const (
	pgUniqueViolation = "23505"
	pgNoDataFound     = "P0002"
)

var (
	ErrDuplicateLike  = errors.New("like already registered")
	ErrTargetNotFound = errors.New("like target not found")
)

type ReactionRepository struct {
	Log     *zap.Logger
	DB      *pgxpool.Pool
	DBCache *redis.Client
}

func NewReactionRepository(zap *zap.Logger, db *pgxpool.Pool, dbCache *redis.Client) *ReactionRepository {
	return &ReactionRepository{
		Log:     zap,
		DB:      db,
		DBCache: dbCache,
	}
}

// RegisterLike records one like and returns the target's new count.
func (repository *ReactionRepository) RegisterLike(ctx context.Context, targetType string, targetId uuid.UUID, fingerprint string) (int, error) {
	var likeCount int
	err := repository.DB.QueryRow(ctx, "SELECT register_like($1, $2, $3)", targetType, targetId, fingerprint).Scan(&likeCount)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgUniqueViolation:
				return 0, ErrDuplicateLike
			case pgNoDataFound:
				return 0, ErrTargetNotFound
			}
		}

		return 0, err
	}

	return likeCount, nil
}

func (repository *ReactionRepository) ToggleFavorite(ctx context.Context, threadId uuid.UUID, fingerprint string) (bool, error) {
	var favorited bool
	err := repository.DB.QueryRow(ctx, "SELECT toggle_favorite($1, $2)", threadId, fingerprint).Scan(&favorited)
	if err != nil {
		return false, err
	}

	return favorited, nil
}

func (repository *ReactionRepository) GetFavoriteThreads(ctx context.Context, fingerprint string, limit int) ([]model.Thread, error) {
	query := `
		SELECT t.id::text, t.title, t.body, t.author_name, t.user_fingerprint, t.created_at, t.comment_count, t.favorite_count, t.is_deleted
		FROM favorites f
		INNER JOIN threads t ON t.id = f.thread_id
		WHERE f.user_fingerprint = $1 AND t.is_deleted = FALSE
		ORDER BY f.created_at DESC
		LIMIT $2
	`

	rows, err := repository.DB.Query(ctx, query, fingerprint, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	threads := []model.Thread{}
	for rows.Next() {
		thread, err := scanThread(rows)
		if err != nil {
			return nil, err
		}

		threads = append(threads, thread)
	}

	return threads, rows.Err()
}

func (repository *ReactionRepository) CheckLike(ctx context.Context, targetType string, targetId uuid.UUID, fingerprint string) (int, error) {
	query := "SELECT 1 FROM likes WHERE target_type = $1 AND target_id = $2 AND user_fingerprint = $3"

	var exists int
	err := repository.DB.QueryRow(ctx, query, targetType, targetId, fingerprint).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return exists, nil
		}

		return exists, err
	}

	return exists, nil
}
