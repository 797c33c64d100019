// Package threadview keeps the state of one reader looking at one thread:
// the last good comment snapshot, the reply target, collapsed subtrees and
// optimistic like counts.
package threadview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/studychannel/studychannel/internal/client"
	"github.com/studychannel/studychannel/internal/commenttree"
	"github.com/studychannel/studychannel/internal/constant"
	"github.com/studychannel/studychannel/internal/metrics"
	"github.com/studychannel/studychannel/internal/model"
	"github.com/studychannel/studychannel/internal/render"
	"github.com/studychannel/studychannel/internal/util"
)

var (
	ErrFetchFailed = errors.New("failed to fetch comments")
	ErrEmptyReply  = errors.New("content or at least one image is required")
)

type API interface {
	FetchComments(ctx context.Context, threadID string) ([]model.Comment, error)
	CreateComment(ctx context.Context, req model.CommentCreateRequest) (model.Comment, error)
	LikeComment(ctx context.Context, commentID string, fingerprint string) error
}

type Config struct {
	ThreadID string
	// FocusID is the comment the page is about and the default reply target.
	// Empty means the whole thread with the thread itself as default target.
	FocusID     string
	Fingerprint string
	AuthorName  string
	Now         func() time.Time
}

type Session struct {
	mu       sync.Mutex
	cfg      Config
	api      API
	renderer *render.Renderer
	log      *zap.Logger
	metrics  *metrics.Metrics
	viewerID string

	graph     *commenttree.Graph
	loaded    bool
	issued    uint64
	applied   uint64
	target    string
	collapsed map[string]bool
	likes     []pendingLike
	notice    string
}

// pendingLike is an optimistic +1 on commentID. issued is the last refresh
// sequence number handed out when the like landed, so only snapshots fetched
// by later refreshes can already contain it.
type pendingLike struct {
	commentID string
	issued    uint64
}

func New(cfg Config, api API, renderer *render.Renderer, log *zap.Logger, m *metrics.Metrics) *Session {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Session{
		cfg:       cfg,
		api:       api,
		renderer:  renderer,
		log:       log,
		metrics:   m,
		viewerID:  util.HashFingerprint(cfg.Fingerprint),
		target:    cfg.FocusID,
		collapsed: make(map[string]bool),
	}
}

// Refresh fetches a new snapshot without holding the lock. A response that
// resolves after a newer one has been applied is discarded.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.issued++
	seq := s.issued
	s.mu.Unlock()

	comments, err := s.api.FetchComments(ctx, s.cfg.ThreadID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq < s.applied {
		s.log.Debug("discarding stale comment snapshot", zap.Uint64("seq", seq), zap.Uint64("applied", s.applied))
		s.metrics.Refresh(metrics.OutcomeStale)
		return nil
	}

	if err != nil {
		s.notice = constant.FETCH_FAILED_LABEL
		if s.loaded {
			s.log.Warn("refresh failed, keeping previous comments", zap.String("threadId", s.cfg.ThreadID), zap.Error(err))
			s.metrics.Refresh(metrics.OutcomeKeptPrevious)
		} else {
			s.log.Warn("initial comment fetch failed", zap.String("threadId", s.cfg.ThreadID), zap.Error(err))
			s.metrics.Refresh(metrics.OutcomeError)
		}
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	s.applied = seq
	s.graph = commenttree.Build(comments)
	s.loaded = true
	s.settleLikes(seq)
	if s.notice == constant.FETCH_FAILED_LABEL {
		s.notice = ""
	}
	if _, ok := s.graph.Get(s.target); !ok {
		s.target = s.cfg.FocusID
	}
	s.metrics.Refresh(metrics.OutcomeSuccess)

	return nil
}

func (s *Session) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loaded
}

// View renders the current snapshot. Before the first successful load it is
// the empty state.
func (s *Session) View() render.View {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := render.State{
		ViewerID:      s.viewerID,
		ReplyTargetID: s.target,
		Collapsed:     s.collapsed,
		LikeBumps:     s.likeBumps(),
		Now:           s.cfg.Now(),
	}

	if s.graph == nil {
		return s.renderer.RenderTopLevel(nil, st)
	}

	var nodes []*commenttree.Node
	if s.cfg.FocusID != "" {
		if n, ok := s.graph.Subtree(s.cfg.FocusID); ok {
			nodes = []*commenttree.Node{n}
		}
	} else {
		nodes = s.graph.Tree()
	}

	v := s.renderer.RenderTopLevel(nodes, st)
	banner := s.renderer.Banner(s.graph, s.target, s.cfg.FocusID)
	v.Banner = &banner

	return v
}

// SetReplyTarget selects id, or the default target when id is not part of
// the current snapshot.
func (s *Session) SetReplyTarget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.graph != nil {
		if _, ok := s.graph.Get(id); ok {
			s.target = id
			return
		}
	}
	s.target = s.cfg.FocusID
}

func (s *Session) ResetReplyTarget() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.target = s.cfg.FocusID
}

func (s *Session) ReplyTarget() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.target
}

func (s *Session) IsDefaultTarget() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.target == s.cfg.FocusID
}

func (s *Session) ToggleChildren(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.collapsed[id] = !s.collapsed[id]
}

// ApplyOptimisticLikeIncrement shows one more like on id until a snapshot
// fetched after the like is applied.
func (s *Session) ApplyOptimisticLikeIncrement(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.likes = append(s.likes, pendingLike{commentID: id, issued: s.issued})
}

// settleLikes drops the likes a snapshot from refresh seq already counts.
// Refreshes issued at or before the like started fetching before it.
func (s *Session) settleLikes(seq uint64) {
	kept := s.likes[:0]
	for _, like := range s.likes {
		if like.issued >= seq {
			kept = append(kept, like)
		}
	}
	s.likes = kept
}

func (s *Session) likeBumps() map[string]int {
	bumps := make(map[string]int, len(s.likes))
	for _, like := range s.likes {
		bumps[like.commentID]++
	}
	return bumps
}

func (s *Session) Like(ctx context.Context, id string) error {
	err := s.api.LikeComment(ctx, id, s.cfg.Fingerprint)
	if err == nil {
		s.ApplyOptimisticLikeIncrement(id)
		s.metrics.Like(metrics.OutcomeSuccess)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if errors.Is(err, client.ErrAlreadyLiked) {
		s.notice = constant.ALREADY_LIKED_LABEL
		s.metrics.Like(metrics.OutcomeDuplicate)
		return err
	}

	s.log.Warn("like failed", zap.String("commentId", id), zap.Error(err))
	s.notice = constant.LIKE_FAILED_LABEL
	s.metrics.Like(metrics.OutcomeError)
	return err
}

// SubmitReply posts a reply to the current target. Nothing is inserted
// locally; the new comment shows up through the refresh that follows. The
// reply target is left as it was.
func (s *Session) SubmitReply(ctx context.Context, content string, images []string) (model.Comment, error) {
	if strings.TrimSpace(content) == "" && len(images) == 0 {
		s.setNotice(constant.EMPTY_REPLY_LABEL)
		return model.Comment{}, ErrEmptyReply
	}

	s.mu.Lock()
	target := s.target
	s.mu.Unlock()

	req := model.CommentCreateRequest{
		ThreadId:        s.cfg.ThreadID,
		Content:         content,
		Images:          images,
		AuthorName:      s.cfg.AuthorName,
		UserFingerprint: s.cfg.Fingerprint,
	}
	if target != "" {
		req.ParentCommentId = &target
	}

	created, err := s.api.CreateComment(ctx, req)
	if err != nil {
		var validationErr *model.ValidationError
		if errors.As(err, &validationErr) {
			s.setNotice(validationErr.Message)
		} else {
			s.log.Warn("reply submission failed", zap.String("threadId", s.cfg.ThreadID), zap.Error(err))
			s.setNotice(constant.REPLY_FAILED_LABEL)
		}
		return model.Comment{}, err
	}

	s.setNotice("")

	return created, s.Refresh(ctx)
}

func (s *Session) Notice() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.notice
}

func (s *Session) ClearNotice() {
	s.setNotice("")
}

func (s *Session) setNotice(notice string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notice = notice
}
