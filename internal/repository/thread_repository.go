package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/studychannel/studychannel/internal/model"
)

const threadFirstPageKey = "threads:first_page"

const threadColumns = `id::text, title, body, author_name, user_fingerprint, created_at, comment_count, favorite_count, is_deleted`

type ThreadRepository struct {
	Log     *zap.Logger
	DB      *pgxpool.Pool
	DBCache *redis.Client
}

func NewThreadRepository(zap *zap.Logger, db *pgxpool.Pool, dbCache *redis.Client) *ThreadRepository {
	return &ThreadRepository{
		Log:     zap,
		DB:      db,
		DBCache: dbCache,
	}
}

func scanThread(row pgx.Row) (model.Thread, error) {
	var thread model.Thread
	err := row.Scan(&thread.Id, &thread.Title, &thread.Body, &thread.AuthorName, &thread.UserFingerprint,
		&thread.CreatedAt, &thread.CommentCount, &thread.FavoriteCount, &thread.IsDeleted)
	return thread, err
}

func (repository *ThreadRepository) CreateThread(ctx context.Context, threadId uuid.UUID, thread model.Thread) error {
	query := "INSERT INTO threads (id, title, body, author_name, user_fingerprint, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $6)"

	_, err := repository.DB.Exec(ctx, query, threadId, thread.Title, thread.Body, thread.AuthorName, thread.UserFingerprint, thread.CreatedAt)
	if err != nil {
		return err
	}

	return nil
}

func (repository *ThreadRepository) CheckThreadExists(ctx context.Context, threadId uuid.UUID) (int, error) {
	query := "SELECT 1 FROM threads WHERE id = $1 AND is_deleted = FALSE"

	var exists int
	err := repository.DB.QueryRow(ctx, query, threadId).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return exists, nil
		}

		return exists, err
	}

	return exists, nil
}

// GetThread returns pgx.ErrNoRows when the thread is missing, or deleted and
// includeDeleted is false.
func (repository *ThreadRepository) GetThread(ctx context.Context, threadId uuid.UUID, includeDeleted bool) (model.Thread, error) {
	query := "SELECT " + threadColumns + " FROM threads WHERE id = $1 AND (is_deleted = FALSE OR $2)"

	return scanThread(repository.DB.QueryRow(ctx, query, threadId, includeDeleted))
}

func (repository *ThreadRepository) GetThreads(ctx context.Context, limit int, cursor *model.Cursor, includeDeleted bool) ([]model.Thread, error) {
	var rows pgx.Rows
	var err error

	if !cursor.IsZero() {
		queryWithCursor := "SELECT " + threadColumns + `
			FROM threads
			WHERE (is_deleted = FALSE OR $1)
			AND (created_at < $2 OR (created_at = $2 AND id < $3))
			ORDER BY created_at DESC, id DESC
			LIMIT $4`

		cursorId, parseErr := uuid.Parse(cursor.Id)
		if parseErr != nil {
			return nil, parseErr
		}
		rows, err = repository.DB.Query(ctx, queryWithCursor, includeDeleted, cursor.CreatedAt, cursorId, limit)
	} else {
		query := "SELECT " + threadColumns + `
			FROM threads
			WHERE (is_deleted = FALSE OR $1)
			ORDER BY created_at DESC, id DESC
			LIMIT $2`
		rows, err = repository.DB.Query(ctx, query, includeDeleted, limit)
	}

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

func (repository *ThreadRepository) SetThreadDeleted(ctx context.Context, threadId uuid.UUID, deleted bool, now time.Time) (int64, error) {
	query := "UPDATE threads SET is_deleted = $1, updated_at = $2 WHERE id = $3"

	tag, err := repository.DB.Exec(ctx, query, deleted, now, threadId)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// GetCachedFirstPage returns ok=false on a miss. Only the cursorless first
// page is cached, one field per page size.
func (repository *ThreadRepository) GetCachedFirstPage(ctx context.Context, limit int) ([]model.Thread, bool, error) {
	raw, err := repository.DBCache.HGet(ctx, threadFirstPageKey, strconv.Itoa(limit)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	} else if err != nil {
		return nil, false, err
	}

	var threads []model.Thread
	err = sonic.Unmarshal(raw, &threads)
	if err != nil {
		return nil, false, fmt.Errorf("decode cached threads: %w", err)
	}

	return threads, true, nil
}

func (repository *ThreadRepository) SetCachedFirstPage(ctx context.Context, limit int, threads []model.Thread, ttl time.Duration) error {
	raw, err := sonic.Marshal(threads)
	if err != nil {
		return err
	}

	pipe := repository.DBCache.TxPipeline()
	pipe.HSet(ctx, threadFirstPageKey, strconv.Itoa(limit), raw)
	pipe.Expire(ctx, threadFirstPageKey, ttl)

	_, err = pipe.Exec(ctx)
	if err != nil {
		return err
	}

	return nil
}

func (repository *ThreadRepository) InvalidateThreadCache(ctx context.Context) error {
	err := repository.DBCache.Del(ctx, threadFirstPageKey).Err()
	if err != nil {
		return err
	}

	return nil
}
