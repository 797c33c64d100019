// Package client is the typed request layer the thread view and the terminal
// reader use to talk to the forum API.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/studychannel/studychannel/internal/constant"
	"github.com/studychannel/studychannel/internal/model"
)

const DefaultCacheTTL = 30 * time.Second

type Config struct {
	BaseURL      string
	HTTPClient   *http.Client
	CacheTTL     time.Duration
	CommentLimit int
	Now          func() time.Time
}

type Client struct {
	baseURL      string
	http         *http.Client
	commentLimit int

	threads   *ListCache[model.Thread]
	favorites *ListCache[model.Thread]
}

func New(cfg Config) *Client {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.CommentLimit <= 0 || cfg.CommentLimit > constant.MAX_COMMENT_FETCH_LIMIT {
		cfg.CommentLimit = constant.DEFAULT_COMMENT_FETCH_LIMIT
	}

	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		http:         cfg.HTTPClient,
		commentLimit: cfg.CommentLimit,
		threads:      NewListCache[model.Thread](cfg.CacheTTL, cfg.Now),
		favorites:    NewListCache[model.Thread](cfg.CacheTTL, cfg.Now),
	}
}

func (c *Client) FetchComments(ctx context.Context, threadID string) ([]model.Comment, error) {
	query := url.Values{}
	query.Set("sort", "created_at")
	query.Set("order", "asc")
	query.Set("limit", strconv.Itoa(c.commentLimit))

	var resp model.CommentListResponse
	err := c.do(ctx, http.MethodGet, "/api/threads/"+url.PathEscape(threadID)+"/comments?"+query.Encode(), nil, &resp)
	if err != nil {
		return nil, err
	}

	return resp.Data, nil
}

func (c *Client) CreateComment(ctx context.Context, req model.CommentCreateRequest) (model.Comment, error) {
	req.LikeCount = 0
	req.CommentNumber = 0

	err := req.Validate()
	if err != nil {
		return model.Comment{}, err
	}

	var created model.Comment
	err = c.do(ctx, http.MethodPost, "/api/threads/"+url.PathEscape(req.ThreadId)+"/comments", req, &created)
	if err != nil {
		return model.Comment{}, err
	}

	return created, nil
}

func (c *Client) LikeComment(ctx context.Context, commentID string, fingerprint string) error {
	req := model.LikeCreateRequest{
		TargetType:      model.LikeTargetComment,
		TargetId:        commentID,
		UserFingerprint: fingerprint,
	}

	err := req.Validate()
	if err != nil {
		return err
	}

	err = c.do(ctx, http.MethodPost, "/api/likes", req, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
		return ErrAlreadyLiked
	}

	return err
}

func (c *Client) GetThread(ctx context.Context, threadID string) (model.Thread, error) {
	var thread model.Thread
	err := c.do(ctx, http.MethodGet, "/api/threads/"+url.PathEscape(threadID), nil, &thread)
	if err != nil {
		return model.Thread{}, err
	}

	return thread, nil
}

// ListThreads returns the first page of threads, served from the cache while
// it is fresh.
func (c *Client) ListThreads(ctx context.Context) ([]model.Thread, error) {
	if threads, ok := c.threads.Get(""); ok {
		return threads, nil
	}

	var resp model.ThreadListResponse
	err := c.do(ctx, http.MethodGet, "/api/threads", nil, &resp)
	if err != nil {
		return nil, err
	}

	c.threads.Set("", resp.Data)
	return resp.Data, nil
}

func (c *Client) ListFavorites(ctx context.Context, fingerprint string) ([]model.Thread, error) {
	if favorites, ok := c.favorites.Get(fingerprint); ok {
		return favorites, nil
	}

	query := url.Values{}
	query.Set("fingerprint", fingerprint)

	var resp model.ThreadListResponse
	err := c.do(ctx, http.MethodGet, "/api/favorites?"+query.Encode(), nil, &resp)
	if err != nil {
		return nil, err
	}

	c.favorites.Set(fingerprint, resp.Data)
	return resp.Data, nil
}

func (c *Client) ToggleFavorite(ctx context.Context, threadID string, fingerprint string) (bool, error) {
	req := model.FavoriteToggleRequest{UserFingerprint: fingerprint}

	err := req.Validate()
	if err != nil {
		return false, err
	}

	var resp model.FavoriteToggleResponse
	err = c.do(ctx, http.MethodPost, "/api/threads/"+url.PathEscape(threadID)+"/favorites", req, &resp)
	if err != nil {
		return false, err
	}

	c.favorites.Invalidate()
	return resp.Favorited, nil
}

func (c *Client) InvalidateThreads() {
	c.threads.Invalidate()
}

func (c *Client) do(ctx context.Context, method string, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := sonic.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var envelope errorEnvelope
		if sonic.Unmarshal(raw, &envelope) == nil {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
			apiErr.Param = envelope.Error.Param
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}

	err = sonic.Unmarshal(raw, out)
	if err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
