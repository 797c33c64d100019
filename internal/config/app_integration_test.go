package config_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/knadh/koanf/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/studychannel/studychannel/internal/config"
	"github.com/studychannel/studychannel/internal/metrics"
	"github.com/studychannel/studychannel/internal/model"
	"github.com/studychannel/studychannel/internal/render"
	"github.com/studychannel/studychannel/internal/testinfra"
	"github.com/studychannel/studychannel/internal/usecase"
)

const adminPassword = "admin-password"

func setupApp(ctx context.Context, t *testing.T) (*fiber.App, *testinfra.Infra, func(context.Context) error) {
	t.Helper()

	infra, err := testinfra.StartInfra(ctx, t, testinfra.Options{MailHog: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = infra.Terminate(ctx, t) })

	require.NoError(t, testinfra.RunMigration(infra.PgURL, t))

	db, rdb := testinfra.Connect(ctx, t, infra)

	passwordHash, err := usecase.HashPassword(adminPassword)
	require.NoError(t, err)

	testConfig := koanf.New(".")
	_ = testConfig.Set("JWT_SECRET_KEY", "test-secret-key-for-jwt-token-generation")
	_ = testConfig.Set("ADMIN_PASSWORD_HASH", passwordHash)
	_ = testConfig.Set("SMTP_HOST", infra.MailhogHost)
	_ = testConfig.Set("SMTP_PORT", infra.MailhogPort)
	_ = testConfig.Set("SENDER_NAME", "Study Channel Test")
	_ = testConfig.Set("SENDER_EMAIL", "noreply@studychannel.test")
	_ = testConfig.Set("MODERATOR_EMAIL", "mod@studychannel.test")

	registry := prometheus.NewRegistry()
	m, err := metrics.NewMetrics(registry)
	require.NoError(t, err)

	log := zap.NewNop()
	app := config.NewFiber(testConfig)
	config.UseMiddleware(app, testConfig, log)

	drain := config.Server(&config.ServerConfig{
		Router:   app,
		DB:       db,
		DBCache:  rdb,
		Log:      log,
		Config:   testConfig,
		Metrics:  m,
		Gatherer: registry,
	})

	return app, infra, drain
}

func do(t *testing.T, app *fiber.App, req *http.Request, wantStatus int, out interface{}) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	if resp.StatusCode != wantStatus {
		body, _ := io.ReadAll(resp.Body)
		require.Failf(t, "unexpected status", "%s %s: want %d, got %d: %s", req.Method, req.URL.Path, wantStatus, resp.StatusCode, body)
	}

	if out != nil {
		testinfra.DecodeJSON(t, resp, out)
	}
}

func TestForumAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	app, infra, drain := setupApp(ctx, t)

	do(t, app, testinfra.CreateJSONRequest(http.MethodGet, "/api/health", nil), http.StatusOK, nil)

	var thread model.Thread
	do(t, app, testinfra.CreateJSONRequest(http.MethodPost, "/api/threads", model.ThreadCreateRequest{
		Title:           "線形代数の質問",
		Body:            "**固有値**について",
		UserFingerprint: "owner",
	}), http.StatusCreated, &thread)
	assert.Equal(t, "名無しさん", thread.AuthorName)

	var otherThread model.Thread
	do(t, app, testinfra.CreateJSONRequest(http.MethodPost, "/api/threads", model.ThreadCreateRequest{Title: "other"}), http.StatusCreated, &otherThread)

	var errBody testinfra.ErrorBody
	do(t, app, testinfra.CreateJSONRequest(http.MethodPost, "/api/threads", model.ThreadCreateRequest{Title: " "}), http.StatusBadRequest, &errBody)
	assert.Equal(t, "title", errBody.Error.Param)

	var list model.ThreadListResponse
	do(t, app, testinfra.CreateJSONRequest(http.MethodGet, "/api/threads?limit=1", nil), http.StatusOK, &list)
	require.Len(t, list.Data, 1)
	assert.NotEmpty(t, list.Page.NextCursor)

	var next model.ThreadListResponse
	do(t, app, testinfra.CreateJSONRequest(http.MethodGet, "/api/threads?limit=1&cursor="+list.Page.NextCursor, nil), http.StatusOK, &next)
	require.Len(t, next.Data, 1)
	assert.NotEqual(t, list.Data[0].Id, next.Data[0].Id)

	threadPath := "/api/threads/" + thread.Id

	var root model.Comment
	do(t, app, testinfra.CreateJSONRequest(http.MethodPost, threadPath+"/comments", model.CommentCreateRequest{
		Content:         "行列式は?",
		UserFingerprint: "alice",
	}), http.StatusCreated, &root)
	assert.Equal(t, 1, root.CommentNumber)

	var reply model.Comment
	do(t, app, testinfra.CreateJSONRequest(http.MethodPost, threadPath+"/comments", model.CommentCreateRequest{
		Images:          []string{"https://img.example.com/a.png"},
		ParentCommentId: &root.Id,
		UserFingerprint: "bob",
	}), http.StatusCreated, &reply)
	assert.Equal(t, 2, reply.CommentNumber)

	do(t, app, testinfra.CreateJSONRequest(http.MethodPost, "/api/threads/"+otherThread.Id+"/comments", model.CommentCreateRequest{
		Content:         "wrong thread",
		ParentCommentId: &root.Id,
	}), http.StatusNotFound, nil)

	do(t, app, testinfra.CreateJSONRequest(http.MethodPost, threadPath+"/comments", model.CommentCreateRequest{Content: "  "}), http.StatusBadRequest, nil)

	var comments model.CommentListResponse
	do(t, app, testinfra.CreateJSONRequest(http.MethodGet, threadPath+"/comments?sort=created_at&order=asc&limit=1000", nil), http.StatusOK, &comments)
	require.Len(t, comments.Data, 2)
	assert.Equal(t, root.Id, comments.Data[0].Id)

	var view render.View
	do(t, app, testinfra.CreateJSONRequest(http.MethodGet, threadPath+"/view?fingerprint=bob", nil), http.StatusOK, &view)
	require.Len(t, view.Nodes, 1)
	require.Len(t, view.Nodes[0].Children, 1)
	assert.Equal(t, render.ModerationRequestDeletion, view.Nodes[0].Children[0].Moderation)
	assert.Equal(t, render.ModerationReport, view.Nodes[0].Moderation)

	pageResp, err := app.Test(testinfra.CreateJSONRequest(http.MethodGet, "/threads/"+thread.Id, nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, pageResp.StatusCode)
	page, _ := io.ReadAll(pageResp.Body)
	assert.Contains(t, string(page), "線形代数の質問")
	assert.Contains(t, string(page), "<strong>固有値</strong>")

	var like model.LikeResponse
	do(t, app, testinfra.CreateJSONRequest(http.MethodPost, "/api/likes", model.LikeCreateRequest{
		TargetType: model.LikeTargetComment, TargetId: root.Id, UserFingerprint: "bob",
	}), http.StatusOK, &like)
	assert.Equal(t, 1, like.LikeCount)

	do(t, app, testinfra.CreateJSONRequest(http.MethodPost, "/api/likes", model.LikeCreateRequest{
		TargetType: model.LikeTargetComment, TargetId: root.Id, UserFingerprint: "bob",
	}), http.StatusConflict, &errBody)
	assert.Equal(t, "ALREADY_LIKED", errBody.Error.Code)

	var favorite model.FavoriteToggleResponse
	do(t, app, testinfra.CreateJSONRequest(http.MethodPost, threadPath+"/favorites", model.FavoriteToggleRequest{UserFingerprint: "bob"}), http.StatusOK, &favorite)
	assert.True(t, favorite.Favorited)

	var favorites model.ThreadListResponse
	do(t, app, testinfra.CreateJSONRequest(http.MethodGet, "/api/favorites?fingerprint=bob", nil), http.StatusOK, &favorites)
	require.Len(t, favorites.Data, 1)
	assert.Equal(t, thread.Id, favorites.Data[0].Id)

	var report model.Report
	do(t, app, testinfra.CreateJSONRequest(http.MethodPost, "/api/reports", model.ReportCreateRequest{
		TargetType: model.LikeTargetComment, TargetId: root.Id, Reason: "off topic", UserFingerprint: "bob",
	}), http.StatusCreated, &report)

	mail := testinfra.WaitForMail(t, infra.MailhogURL, "[Study Channel] New comment report")
	assert.Contains(t, mail, report.Id)

	do(t, app, testinfra.CreateJSONRequest(http.MethodPost, "/api/deletion-requests", model.DeletionRequestCreateRequest{
		CommentId: reply.Id, Reason: "mine", UserFingerprint: "alice",
	}), http.StatusForbidden, nil)

	var deletion model.DeletionRequest
	do(t, app, testinfra.CreateJSONRequest(http.MethodPost, "/api/deletion-requests", model.DeletionRequestCreateRequest{
		CommentId: reply.Id, Reason: "mine", UserFingerprint: "bob",
	}), http.StatusCreated, &deletion)

	do(t, app, testinfra.CreateJSONRequest(http.MethodGet, "/api/admin/reports", nil), http.StatusUnauthorized, nil)
	do(t, app, testinfra.CreateJSONRequest(http.MethodPost, "/api/admin/login", model.AdminLoginRequest{Password: "wrong"}), http.StatusUnauthorized, nil)

	var token model.TokenResponse
	do(t, app, testinfra.CreateJSONRequest(http.MethodPost, "/api/admin/login", model.AdminLoginRequest{Password: adminPassword}), http.StatusOK, &token)
	require.NotEmpty(t, token.AccessToken)

	var reports struct {
		Data []model.Report `json:"data"`
	}
	do(t, app, testinfra.CreateAuthRequest(http.MethodGet, "/api/admin/reports", nil, token.AccessToken), http.StatusOK, &reports)
	require.Len(t, reports.Data, 1)

	do(t, app, testinfra.CreateAuthRequest(http.MethodPost, "/api/admin/reports/"+report.Id+"/resolve", model.ReportResolveRequest{Status: model.ReportStatusDismissed}, token.AccessToken), http.StatusOK, nil)
	do(t, app, testinfra.CreateAuthRequest(http.MethodPost, "/api/admin/reports/"+report.Id+"/resolve", model.ReportResolveRequest{Status: model.ReportStatusResolved}, token.AccessToken), http.StatusNotFound, nil)

	do(t, app, testinfra.CreateAuthRequest(http.MethodPost, "/api/admin/deletion-requests/"+deletion.Id+"/approve", nil, token.AccessToken), http.StatusOK, nil)
	do(t, app, testinfra.CreateJSONRequest(http.MethodGet, threadPath+"/comments", nil), http.StatusOK, &comments)
	require.Len(t, comments.Data, 1)
	assert.Equal(t, root.Id, comments.Data[0].Id)

	do(t, app, testinfra.CreateAuthRequest(http.MethodDelete, "/api/admin/threads/"+thread.Id, nil, token.AccessToken), http.StatusOK, nil)
	do(t, app, testinfra.CreateJSONRequest(http.MethodGet, threadPath, nil), http.StatusNotFound, nil)

	var all model.ThreadListResponse
	do(t, app, testinfra.CreateAuthRequest(http.MethodGet, "/api/admin/threads", nil, token.AccessToken), http.StatusOK, &all)
	assert.Len(t, all.Data, 2)

	do(t, app, testinfra.CreateAuthRequest(http.MethodPost, "/api/admin/threads/"+thread.Id+"/restore", nil, token.AccessToken), http.StatusOK, nil)
	do(t, app, testinfra.CreateJSONRequest(http.MethodGet, threadPath, nil), http.StatusOK, nil)

	do(t, app, testinfra.CreateAuthRequest(http.MethodPost, "/api/admin/logout", nil, token.AccessToken), http.StatusOK, nil)
	do(t, app, testinfra.CreateAuthRequest(http.MethodGet, "/api/admin/reports", nil, token.AccessToken), http.StatusUnauthorized, nil)

	metricsResp, err := app.Test(testinfra.CreateJSONRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	metricsBody, _ := io.ReadAll(metricsResp.Body)
	assert.True(t, strings.Contains(string(metricsBody), "studychannel_comments_created_total"))

	require.NoError(t, drain(ctx))
}
