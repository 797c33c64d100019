package testinfra

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// Connect opens a pool and a Redis client against infra and closes both when
// the test ends.
func Connect(ctx context.Context, t *testing.T, infra *Infra) (*pgxpool.Pool, *redis.Client) {
	t.Helper()

	db, err := pgxpool.New(ctx, infra.PgURL)
	require.NoError(t, err, "failed to connect to test db")

	rdb := redis.NewClient(&redis.Options{Addr: infra.RedisURL})
	require.NoError(t, rdb.Ping(ctx).Err(), "failed to connect to test redis")

	t.Cleanup(func() {
		db.Close()
		_ = rdb.Close()
	})

	return db, rdb
}

// TruncateAllTables empties every forum table and the Redis database.
func TruncateAllTables(t *testing.T, db *pgxpool.Pool, rdb *redis.Client, ctx context.Context) {
	t.Helper()

	_, err := db.Exec(ctx, "TRUNCATE TABLE likes, favorites, reports, deletion_requests, comments, threads CASCADE")
	require.NoError(t, err, "failed to truncate tables")

	if rdb != nil {
		require.NoError(t, rdb.FlushDB(ctx).Err(), "failed to flush redis")
	}
}

func CreateJSONRequest(method, url string, body interface{}) *http.Request {
	var reader io.Reader
	if body != nil {
		raw, _ := sonic.Marshal(body)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func CreateAuthRequest(method, url string, body interface{}, token string) *http.Request {
	req := CreateJSONRequest(method, url, body)
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	return req
}

// DecodeJSON reads resp into out and closes the body.
func DecodeJSON(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	require.NoError(t, sonic.Unmarshal(raw, out), "failed to parse JSON response: %s", raw)
}

// ErrorBody is the error envelope every handler writes.
type ErrorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Param   string `json:"param"`
	} `json:"error"`
}

type mailhogMessages struct {
	Total int `json:"total"`
	Items []struct {
		Content struct {
			Headers map[string][]string `json:"Headers"`
			Body    string              `json:"Body"`
		} `json:"Content"`
	} `json:"items"`
}

// WaitForMail polls the MailHog API until a message with subject arrives.
func WaitForMail(t *testing.T, mailhogURL string, subject string) string {
	t.Helper()

	for attempt := 0; attempt < 20; attempt++ {
		resp, err := http.Get(mailhogURL + "/api/v2/messages")
		require.NoError(t, err, "failed to fetch messages from MailHog")

		var messages mailhogMessages
		DecodeJSON(t, resp, &messages)

		for _, item := range messages.Items {
			for _, s := range item.Content.Headers["Subject"] {
				if s == subject {
					return item.Content.Body
				}
			}
		}

		time.Sleep(250 * time.Millisecond)
	}

	require.Failf(t, "mail not delivered", "no message with subject %q", subject)
	return ""
}
