package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/studychannel/studychannel/internal/model"
	"github.com/studychannel/studychannel/internal/testinfra"
)

type repositories struct {
	db         *pgxpool.Pool
	rdb        *redis.Client
	thread     *ThreadRepository
	comment    *CommentRepository
	reaction   *ReactionRepository
	moderation *ModerationRepository
	admin      *AdminRepository
}

func TestRepositories_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	infra, err := testinfra.StartInfra(ctx, t, testinfra.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = infra.Terminate(ctx, t) })

	require.NoError(t, testinfra.RunMigration(infra.PgURL, t))

	db, rdb := testinfra.Connect(ctx, t, infra)
	log := zap.NewNop()
	r := repositories{
		db:         db,
		rdb:        rdb,
		thread:     NewThreadRepository(log, db, rdb),
		comment:    NewCommentRepository(log, db, rdb),
		reaction:   NewReactionRepository(log, db, rdb),
		moderation: NewModerationRepository(log, db, rdb),
		admin:      NewAdminRepository(log, rdb),
	}

	reset := func(t *testing.T) {
		testinfra.TruncateAllTables(t, db, rdb, ctx)
	}

	t.Run("thread pagination and soft delete", func(t *testing.T) {
		reset(t)
		testThreadPagination(ctx, t, r)
	})
	t.Run("thread first page cache", func(t *testing.T) {
		reset(t)
		testThreadCache(ctx, t, r)
	})
	t.Run("comment numbering", func(t *testing.T) {
		reset(t)
		testCommentNumbering(ctx, t, r)
	})
	t.Run("likes", func(t *testing.T) {
		reset(t)
		testLikes(ctx, t, r)
	})
	t.Run("favorites", func(t *testing.T) {
		reset(t)
		testFavorites(ctx, t, r)
	})
	t.Run("moderation", func(t *testing.T) {
		reset(t)
		testModeration(ctx, t, r)
	})
	t.Run("admin tokens", func(t *testing.T) {
		reset(t)
		testAdminTokens(ctx, t, r)
	})
}

func seedThread(ctx context.Context, t *testing.T, r repositories, title string, createdAt time.Time) uuid.UUID {
	t.Helper()

	id := uuid.New()
	err := r.thread.CreateThread(ctx, id, model.Thread{
		Title:      title,
		AuthorName: "名無しさん",
		CreatedAt:  createdAt,
	})
	require.NoError(t, err)
	return id
}

func seedComment(ctx context.Context, t *testing.T, r repositories, threadId uuid.UUID, parentId *uuid.UUID, content string, fingerprint string) uuid.UUID {
	t.Helper()

	tx, err := r.db.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(ctx) }()

	number, err := r.comment.NextCommentNumber(ctx, tx, threadId)
	require.NoError(t, err)
	require.NotZero(t, number)

	id := uuid.New()
	err = r.comment.CreateComment(ctx, tx, id, threadId, parentId, model.Comment{
		Content:         content,
		Images:          []string{},
		AuthorName:      "名無しさん",
		UserFingerprint: fingerprint,
		CommentNumber:   number,
		CreatedAt:       time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	return id
}

func testThreadPagination(ctx context.Context, t *testing.T, r repositories) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	ids := make([]uuid.UUID, 5)
	for i := range ids {
		ids[i] = seedThread(ctx, t, r, "thread", base.Add(time.Duration(i)*time.Minute))
	}

	first, err := r.thread.GetThreads(ctx, 2, &model.Cursor{}, false)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, ids[4].String(), first[0].Id)
	assert.Equal(t, ids[3].String(), first[1].Id)

	cursor := model.Cursor{Id: first[1].Id, CreatedAt: first[1].CreatedAt}
	second, err := r.thread.GetThreads(ctx, 10, &cursor, false)
	require.NoError(t, err)
	require.Len(t, second, 3)
	assert.Equal(t, ids[2].String(), second[0].Id)

	affected, err := r.thread.SetThreadDeleted(ctx, ids[4], true, time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	_, err = r.thread.GetThread(ctx, ids[4], false)
	assert.True(t, errors.Is(err, pgx.ErrNoRows))

	deleted, err := r.thread.GetThread(ctx, ids[4], true)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)

	live, err := r.thread.GetThreads(ctx, 10, &model.Cursor{}, false)
	require.NoError(t, err)
	assert.Len(t, live, 4)

	all, err := r.thread.GetThreads(ctx, 10, &model.Cursor{}, true)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	exists, err := r.thread.CheckThreadExists(ctx, ids[4])
	require.NoError(t, err)
	assert.Zero(t, exists)
}

func testThreadCache(ctx context.Context, t *testing.T, r repositories) {
	_, ok, err := r.thread.GetCachedFirstPage(ctx, 20)
	require.NoError(t, err)
	assert.False(t, ok)

	threads := []model.Thread{{Id: uuid.NewString(), Title: "cached", CreatedAt: time.Now().UTC()}}
	require.NoError(t, r.thread.SetCachedFirstPage(ctx, 20, threads, time.Minute))

	cached, ok, err := r.thread.GetCachedFirstPage(ctx, 20)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "cached", cached[0].Title)

	_, ok, err = r.thread.GetCachedFirstPage(ctx, 10)
	require.NoError(t, err)
	assert.False(t, ok)

	ttl, err := r.rdb.TTL(ctx, threadFirstPageKey).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, r.thread.InvalidateThreadCache(ctx))
	_, ok, err = r.thread.GetCachedFirstPage(ctx, 20)
	require.NoError(t, err)
	assert.False(t, ok)
}

func testCommentNumbering(ctx context.Context, t *testing.T, r repositories) {
	threadId := seedThread(ctx, t, r, "numbers", time.Now().UTC())
	otherThread := seedThread(ctx, t, r, "other", time.Now().UTC())

	root := seedComment(ctx, t, r, threadId, nil, "first", "")
	reply := seedComment(ctx, t, r, threadId, &root, "second", "")

	comments, err := r.comment.GetComments(ctx, threadId, false, 100)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, 1, comments[0].CommentNumber)
	assert.Equal(t, 2, comments[1].CommentNumber)
	require.NotNil(t, comments[1].ParentCommentId)
	assert.Equal(t, root.String(), *comments[1].ParentCommentId)
	assert.Nil(t, comments[0].ParentCommentId)
	assert.Equal(t, []string{}, comments[0].Images)

	desc, err := r.comment.GetComments(ctx, threadId, true, 1)
	require.NoError(t, err)
	require.Len(t, desc, 1)
	assert.Equal(t, reply.String(), desc[0].Id)

	inThread, err := r.comment.CheckCommentInThread(ctx, root, threadId)
	require.NoError(t, err)
	assert.Equal(t, 1, inThread)

	inOther, err := r.comment.CheckCommentInThread(ctx, root, otherThread)
	require.NoError(t, err)
	assert.Zero(t, inOther)

	tx, err := r.db.Begin(ctx)
	require.NoError(t, err)
	deleted, err := r.comment.SoftDeleteComment(ctx, tx, reply)
	require.NoError(t, err)
	assert.True(t, deleted)
	again, err := r.comment.SoftDeleteComment(ctx, tx, reply)
	require.NoError(t, err)
	assert.False(t, again)
	require.NoError(t, tx.Commit(ctx))

	comments, err = r.comment.GetComments(ctx, threadId, false, 100)
	require.NoError(t, err)
	assert.Len(t, comments, 1)

	next := seedComment(ctx, t, r, threadId, nil, "third", "")
	stored, err := r.comment.GetComment(ctx, next)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.CommentNumber)

	missingTx, err := r.db.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = missingTx.Rollback(ctx) }()
	number, err := r.comment.NextCommentNumber(ctx, missingTx, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, number)
}

func testLikes(ctx context.Context, t *testing.T, r repositories) {
	threadId := seedThread(ctx, t, r, "likes", time.Now().UTC())
	commentId := seedComment(ctx, t, r, threadId, nil, "like me", "")

	count, err := r.reaction.RegisterLike(ctx, model.LikeTargetComment, commentId, "fp-a")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = r.reaction.RegisterLike(ctx, model.LikeTargetComment, commentId, "fp-b")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = r.reaction.RegisterLike(ctx, model.LikeTargetComment, commentId, "fp-a")
	assert.ErrorIs(t, err, ErrDuplicateLike)

	_, err = r.reaction.RegisterLike(ctx, model.LikeTargetComment, uuid.New(), "fp-a")
	assert.ErrorIs(t, err, ErrTargetNotFound)

	liked, err := r.reaction.CheckLike(ctx, model.LikeTargetComment, commentId, "fp-b")
	require.NoError(t, err)
	assert.Equal(t, 1, liked)

	count, err = r.reaction.RegisterLike(ctx, model.LikeTargetThread, threadId, "fp-a")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stored, err := r.comment.GetComment(ctx, commentId)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.LikeCount)
}

func testFavorites(ctx context.Context, t *testing.T, r repositories) {
	threadId := seedThread(ctx, t, r, "favorite", time.Now().UTC())

	favorited, err := r.reaction.ToggleFavorite(ctx, threadId, "fp-a")
	require.NoError(t, err)
	assert.True(t, favorited)

	threads, err := r.reaction.GetFavoriteThreads(ctx, "fp-a", 10)
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.Equal(t, 1, threads[0].FavoriteCount)

	favorited, err = r.reaction.ToggleFavorite(ctx, threadId, "fp-a")
	require.NoError(t, err)
	assert.False(t, favorited)

	threads, err = r.reaction.GetFavoriteThreads(ctx, "fp-a", 10)
	require.NoError(t, err)
	assert.Empty(t, threads)

	thread, err := r.thread.GetThread(ctx, threadId, false)
	require.NoError(t, err)
	assert.Zero(t, thread.FavoriteCount)
}

func testModeration(ctx context.Context, t *testing.T, r repositories) {
	threadId := seedThread(ctx, t, r, "moderation", time.Now().UTC())
	commentId := seedComment(ctx, t, r, threadId, nil, "remove me", "hashed-fp")

	exists, err := r.moderation.CheckTargetExists(ctx, model.LikeTargetComment, commentId)
	require.NoError(t, err)
	assert.Equal(t, 1, exists)

	exists, err = r.moderation.CheckTargetExists(ctx, model.LikeTargetThread, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, exists)

	reportId := uuid.New()
	require.NoError(t, r.moderation.CreateReport(ctx, reportId, commentId, model.Report{
		TargetType:      model.LikeTargetComment,
		Reason:          "spam",
		UserFingerprint: "reporter",
		Status:          model.ReportStatusOpen,
		CreatedAt:       time.Now().UTC(),
	}))

	open, err := r.moderation.GetReports(ctx, model.ReportStatusOpen, 10)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, commentId.String(), open[0].TargetId)

	affected, err := r.moderation.UpdateReportStatus(ctx, reportId, model.ReportStatusResolved, time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	affected, err = r.moderation.UpdateReportStatus(ctx, reportId, model.ReportStatusDismissed, time.Now())
	require.NoError(t, err)
	assert.Zero(t, affected)

	requestId := uuid.New()
	require.NoError(t, r.moderation.CreateDeletionRequest(ctx, requestId, commentId, model.DeletionRequest{
		Reason:          "mine",
		UserFingerprint: "hashed-fp",
		Status:          model.DeletionRequestPending,
		CreatedAt:       time.Now().UTC(),
	}))

	pending, err := r.moderation.GetDeletionRequests(ctx, model.DeletionRequestPending, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	tx, err := r.db.Begin(ctx)
	require.NoError(t, err)
	locked, err := r.moderation.LockPendingDeletionRequest(ctx, tx, requestId)
	require.NoError(t, err)
	assert.Equal(t, commentId, locked)
	_, err = r.moderation.UpdateDeletionRequestStatus(ctx, tx, requestId, model.DeletionRequestApproved, time.Now())
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	tx, err = r.db.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(ctx) }()
	locked, err = r.moderation.LockPendingDeletionRequest(ctx, tx, requestId)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, locked)
}

func testAdminTokens(ctx context.Context, t *testing.T, r repositories) {
	stored, err := r.admin.GetAdminToken(ctx, "hash")
	require.NoError(t, err)
	assert.Empty(t, stored)

	require.NoError(t, r.admin.SetAdminToken(ctx, "hash", time.Minute))
	stored, err = r.admin.GetAdminToken(ctx, "hash")
	require.NoError(t, err)
	assert.Equal(t, "hash", stored)

	require.NoError(t, r.admin.RemoveAdminToken(ctx, "hash"))
	stored, err = r.admin.GetAdminToken(ctx, "hash")
	require.NoError(t, err)
	assert.Empty(t, stored)
}
