package model

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/studychannel/studychannel/internal/constant"
)

type Comment struct {
	Id              string    `json:"id"`
	ThreadId        string    `json:"thread_id"`
	ParentCommentId *string   `json:"parent_comment_id"`
	Content         string    `json:"content"`
	Images          []string  `json:"images"`
	AuthorName      string    `json:"author_name"`
	UserFingerprint string    `json:"user_fingerprint,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	LikeCount       int       `json:"like_count"`
	CommentNumber   int       `json:"comment_number"`
	IsDeleted       bool      `json:"is_deleted"`
}

// IsTopLevel reports whether the comment replies to the thread itself.
func (c Comment) IsTopLevel() bool {
	return c.ParentCommentId == nil
}

type CommentListResponse struct {
	Data []Comment `json:"data"`
}

// CommentCreateRequest is the body of POST /api/threads/:threadId/comments.
// LikeCount and CommentNumber are always submitted as 0; the store assigns
// the real sequential number.
type CommentCreateRequest struct {
	ThreadId        string   `json:"thread_id"`
	Content         string   `json:"content"`
	Images          []string `json:"images"`
	AuthorName      string   `json:"author_name"`
	ParentCommentId *string  `json:"parent_comment_id"`
	UserFingerprint string   `json:"user_fingerprint"`
	LikeCount       int      `json:"like_count"`
	CommentNumber   int      `json:"comment_number"`
}

func (r CommentCreateRequest) Validate() error {
	if r.ThreadId == "" {
		return invalid("thread_id", "Thread id is required")
	}

	content := strings.TrimSpace(r.Content)
	if content == "" && len(r.Images) == 0 {
		return invalid("content", "Content or at least one image is required")
	}

	if utf8.RuneCountInString(r.Content) > constant.MAX_COMMENT_LENGTH {
		return invalid("content", fmt.Sprintf("Content must be at most %d characters", constant.MAX_COMMENT_LENGTH))
	}

	if len(r.Images) > constant.MAX_IMAGES_PER_COMMENT {
		return invalid("images", fmt.Sprintf("At most %d images are allowed", constant.MAX_IMAGES_PER_COMMENT))
	}

	for _, image := range r.Images {
		if !isHTTPURL(image) {
			return invalid("images", fmt.Sprintf("Invalid image url: %s", image))
		}
	}

	if utf8.RuneCountInString(r.AuthorName) > constant.MAX_AUTHOR_NAME_LENGTH {
		return invalid("author_name", fmt.Sprintf("Author name must be at most %d characters", constant.MAX_AUTHOR_NAME_LENGTH))
	}

	if r.ParentCommentId != nil && *r.ParentCommentId == "" {
		return invalid("parent_comment_id", "Parent comment id must not be empty")
	}

	if len(r.UserFingerprint) > constant.MAX_FINGERPRINT_LENGTH {
		return invalid("user_fingerprint", "Fingerprint is too long")
	}

	return nil
}

func isHTTPURL(raw string) bool {
	if raw == "" || len(raw) > constant.MAX_IMAGE_URL_LENGTH {
		return false
	}

	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
