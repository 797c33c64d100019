package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/studychannel/studychannel/internal/model"
)

const commentColumns = `id::text, thread_id::text, parent_comment_id::text, content, images, author_name, user_fingerprint, created_at, like_count, comment_number, is_deleted`

type CommentRepository struct {
	Log     *zap.Logger
	DB      *pgxpool.Pool
	DBCache *redis.Client
}

func NewCommentRepository(zap *zap.Logger, db *pgxpool.Pool, dbCache *redis.Client) *CommentRepository {
	return &CommentRepository{
		Log:     zap,
		DB:      db,
		DBCache: dbCache,
	}
}

func scanComment(row pgx.Row) (model.Comment, error) {
	var comment model.Comment
	err := row.Scan(&comment.Id, &comment.ThreadId, &comment.ParentCommentId, &comment.Content, &comment.Images,
		&comment.AuthorName, &comment.UserFingerprint, &comment.CreatedAt, &comment.LikeCount, &comment.CommentNumber, &comment.IsDeleted)
	if comment.Images == nil {
		comment.Images = []string{}
	}
	return comment, err
}

func (repository *CommentRepository) CheckCommentInThread(ctx context.Context, commentId uuid.UUID, threadId uuid.UUID) (int, error) {
	query := "SELECT 1 FROM comments WHERE id = $1 AND thread_id = $2 AND is_deleted = FALSE"

	var exists int
	err := repository.DB.QueryRow(ctx, query, commentId, threadId).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return exists, nil
		}

		return exists, err
	}

	return exists, nil
}

// NextCommentNumber bumps the thread's counter inside tx. It returns 0 when
// the thread is missing or deleted.
func (repository *CommentRepository) NextCommentNumber(ctx context.Context, tx pgx.Tx, threadId uuid.UUID) (int, error) {
	query := "UPDATE threads SET comment_count = comment_count + 1 WHERE id = $1 AND is_deleted = FALSE RETURNING comment_count"

	var number int
	err := tx.QueryRow(ctx, query, threadId).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}

		return 0, err
	}

	return number, nil
}

func (repository *CommentRepository) CreateComment(ctx context.Context, tx pgx.Tx, commentId uuid.UUID, threadId uuid.UUID, parentId *uuid.UUID, comment model.Comment) error {
	query := "INSERT INTO comments (id, thread_id, parent_comment_id, content, images, author_name, user_fingerprint, like_count, comment_number, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9)"

	_, err := tx.Exec(ctx, query, commentId, threadId, parentId, comment.Content, comment.Images, comment.AuthorName, comment.UserFingerprint, comment.CommentNumber, comment.CreatedAt)
	if err != nil {
		return err
	}

	return nil
}

// GetComments returns the live comments of a thread ordered by creation time.
func (repository *CommentRepository) GetComments(ctx context.Context, threadId uuid.UUID, descending bool, limit int) ([]model.Comment, error) {
	query := "SELECT " + commentColumns + " FROM comments WHERE thread_id = $1 AND is_deleted = FALSE ORDER BY created_at ASC, comment_number ASC LIMIT $2"
	if descending {
		query = "SELECT " + commentColumns + " FROM comments WHERE thread_id = $1 AND is_deleted = FALSE ORDER BY created_at DESC, comment_number DESC LIMIT $2"
	}

	rows, err := repository.DB.Query(ctx, query, threadId, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}

		comments = append(comments, comment)
	}

	return comments, rows.Err()
}

func (repository *CommentRepository) GetComment(ctx context.Context, commentId uuid.UUID) (model.Comment, error) {
	query := "SELECT " + commentColumns + " FROM comments WHERE id = $1"

	return scanComment(repository.DB.QueryRow(ctx, query, commentId))
}

func (repository *CommentRepository) SoftDeleteComment(ctx context.Context, tx pgx.Tx, commentId uuid.UUID) (bool, error) {
	var deleted bool
	err := tx.QueryRow(ctx, "SELECT soft_delete_comment($1)", commentId).Scan(&deleted)
	if err != nil {
		return false, err
	}

	return deleted, nil
}
