package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/studychannel/studychannel/internal/constant"
	"github.com/studychannel/studychannel/internal/model"
	"github.com/studychannel/studychannel/internal/render"
	"github.com/studychannel/studychannel/internal/util"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func enabledMail() util.MailConfig {
	return util.MailConfig{SMTPHost: "localhost", SMTPPort: 1025, SenderEmail: "noreply@studychannel.test"}
}

func TestReportNotifier_SendsAndWaits(t *testing.T) {
	notifier := NewReportNotifier(enabledMail(), "mod@studychannel.test", zap.NewNop(), nil)

	var mu sync.Mutex
	var subjects []string
	notifier.Send = func(ctx context.Context, cfg util.MailConfig, to string, subject string, body string) error {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, "mod@studychannel.test", to)
		assert.Contains(t, body, "spam")
		subjects = append(subjects, subject)
		return nil
	}

	notifier.Notify(model.Report{Id: "r1", TargetType: "comment", TargetId: "c1", Reason: "spam"})
	notifier.Notify(model.Report{Id: "r2", TargetType: "thread", TargetId: "t1", Reason: "spam"})
	require.NoError(t, notifier.Wait(context.Background()))

	assert.ElementsMatch(t, []string{"[Study Channel] New comment report", "[Study Channel] New thread report"}, subjects)
}

func TestReportNotifier_DisabledWithoutConfig(t *testing.T) {
	notifier := NewReportNotifier(util.MailConfig{}, "mod@studychannel.test", zap.NewNop(), nil)

	var calls int32
	notifier.Send = func(context.Context, util.MailConfig, string, string, string) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}

	notifier.Notify(model.Report{Id: "r1"})
	require.NoError(t, notifier.Wait(context.Background()))

	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestReportNotifier_SkipsWhenQueueIsFull(t *testing.T) {
	notifier := NewReportNotifier(enabledMail(), "mod@studychannel.test", zap.NewNop(), nil)

	release := make(chan struct{})
	var calls int32
	notifier.Send = func(context.Context, util.MailConfig, string, string, string) error {
		atomic.AddInt32(&calls, 1)
		<-release
		return errors.New("smtp down")
	}

	for i := 0; i < maxPendingReportMails+3; i++ {
		notifier.Notify(model.Report{Id: "r"})
	}
	close(release)
	require.NoError(t, notifier.Wait(context.Background()))

	assert.Equal(t, int32(maxPendingReportMails), atomic.LoadInt32(&calls))
}

func TestReportNotifier_StuckSendIsBounded(t *testing.T) {
	notifier := NewReportNotifier(enabledMail(), "mod@studychannel.test", zap.NewNop(), nil)
	notifier.Timeout = 200 * time.Millisecond

	sendErr := make(chan error, 1)
	notifier.Send = func(ctx context.Context, cfg util.MailConfig, to string, subject string, body string) error {
		<-ctx.Done()
		sendErr <- ctx.Err()
		return ctx.Err()
	}

	notifier.Notify(model.Report{Id: "r1", TargetType: "comment"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, notifier.Wait(ctx), context.DeadlineExceeded)

	require.NoError(t, notifier.Wait(context.Background()))
	assert.ErrorIs(t, <-sendErr, context.DeadlineExceeded)
}

func TestReportNotifier_NilIsSafe(t *testing.T) {
	var notifier *ReportNotifier
	assert.False(t, notifier.Enabled())
	notifier.Notify(model.Report{Id: "r1"})
	require.NoError(t, notifier.Wait(context.Background()))
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 20, clampLimit(0, 20, 100))
	assert.Equal(t, 20, clampLimit(-5, 20, 100))
	assert.Equal(t, 50, clampLimit(50, 20, 100))
	assert.Equal(t, 100, clampLimit(500, 20, 100))
}

func TestParseId(t *testing.T) {
	_, err := parseId("not-a-uuid", "threadId", "thread")

	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, constant.ERR_VALIDATION_CODE, validationErr.Code)
	assert.Equal(t, "threadId", validationErr.Param)
	assert.Equal(t, "Invalid thread id", validationErr.Message)
}

func TestCommentQueryValidate(t *testing.T) {
	assert.NoError(t, CommentQuery{}.validate())
	assert.NoError(t, CommentQuery{Sort: "created_at", Order: "desc"}.validate())
	assert.Error(t, CommentQuery{Sort: "like_count"}.validate())
	assert.Error(t, CommentQuery{Order: "sideways"}.validate())
}

func viewComment(id string, parent string, fingerprint string, minute int) model.Comment {
	c := model.Comment{
		Id:              id,
		ThreadId:        "t1",
		Content:         "body " + id,
		Images:          []string{},
		AuthorName:      "author " + id,
		UserFingerprint: fingerprint,
		CreatedAt:       time.Date(2026, 1, 1, 12, minute, 0, 0, time.UTC),
		CommentNumber:   minute + 1,
	}
	if parent != "" {
		c.ParentCommentId = &parent
	}
	return c
}

func TestBuildView_WholeForest(t *testing.T) {
	comments := []model.Comment{
		viewComment("a", "", "", 0),
		viewComment("b", "a", util.HashFingerprint("viewer"), 1),
		viewComment("c", "", "", 2),
	}

	view := BuildView(render.NewRenderer(), comments, ViewQuery{Fingerprint: "viewer"}, time.Date(2026, 1, 1, 13, 0, 0, 0, time.UTC))

	require.Len(t, view.Nodes, 2)
	assert.Equal(t, "a", view.Nodes[0].ID)
	require.Len(t, view.Nodes[0].Children, 1)
	assert.Equal(t, render.ModerationRequestDeletion, view.Nodes[0].Children[0].Moderation)
	assert.Equal(t, render.ModerationReport, view.Nodes[0].Moderation)
	require.NotNil(t, view.Banner)
	assert.True(t, view.Banner.IsDefault)
}

func TestBuildView_FocusAndTarget(t *testing.T) {
	comments := []model.Comment{
		viewComment("a", "", "", 0),
		viewComment("b", "a", "", 1),
		viewComment("c", "", "", 2),
	}

	view := BuildView(render.NewRenderer(), comments, ViewQuery{FocusID: "a", ReplyTargetID: "b"}, time.Date(2026, 1, 1, 13, 0, 0, 0, time.UTC))

	require.Len(t, view.Nodes, 1)
	assert.Equal(t, "a", view.Nodes[0].ID)
	assert.True(t, view.Nodes[0].Children[0].Selected)
	assert.False(t, view.Nodes[0].Selected)
	require.NotNil(t, view.Banner)
	assert.Equal(t, "b", view.Banner.TargetID)
	assert.False(t, view.Banner.IsDefault)
}

func TestBuildView_UnknownTargetFallsBackToFocus(t *testing.T) {
	comments := []model.Comment{viewComment("a", "", "", 0)}

	view := BuildView(render.NewRenderer(), comments, ViewQuery{FocusID: "a", ReplyTargetID: "gone"}, time.Now())

	require.NotNil(t, view.Banner)
	assert.Equal(t, "a", view.Banner.TargetID)
	assert.True(t, view.Nodes[0].Selected)
}

func TestBuildView_Empty(t *testing.T) {
	view := BuildView(render.NewRenderer(), nil, ViewQuery{}, time.Now())

	assert.True(t, view.Empty)
	assert.Equal(t, constant.EMPTY_REPLIES_LABEL, view.EmptyMessage)
}

func TestHashPassword(t *testing.T) {
	hashed, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hashed), []byte("s3cret")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(hashed), []byte("other")))
}

func TestCommentUsecase_DefaultLimit(t *testing.T) {
	assert.Equal(t, constant.DEFAULT_COMMENT_FETCH_LIMIT, (&CommentUsecase{}).defaultLimit())

	k := koanf.New(".")
	_ = k.Set("COMMENT_FETCH_LIMIT", 200)
	assert.Equal(t, 200, (&CommentUsecase{Config: k}).defaultLimit())

	_ = k.Set("COMMENT_FETCH_LIMIT", 5000)
	assert.Equal(t, constant.MAX_COMMENT_FETCH_LIMIT, (&CommentUsecase{Config: k}).defaultLimit())
}
