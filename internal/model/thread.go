package model

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/studychannel/studychannel/internal/constant"
)

type Thread struct {
	Id              string    `json:"id"`
	Title           string    `json:"title"`
	Body            string    `json:"body"`
	AuthorName      string    `json:"author_name"`
	UserFingerprint string    `json:"user_fingerprint,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	CommentCount    int       `json:"comment_count"`
	FavoriteCount   int       `json:"favorite_count"`
	IsDeleted       bool      `json:"is_deleted"`
}

type ThreadListResponse struct {
	Data []Thread `json:"data"`
	Page Page     `json:"page"`
}

type ThreadCreateRequest struct {
	Title           string `json:"title"`
	Body            string `json:"body"`
	AuthorName      string `json:"author_name"`
	UserFingerprint string `json:"user_fingerprint"`
}

func (r ThreadCreateRequest) Validate() error {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return invalid("title", "Title is required")
	}

	if utf8.RuneCountInString(title) > constant.MAX_TITLE_LENGTH {
		return invalid("title", fmt.Sprintf("Title must be at most %d characters", constant.MAX_TITLE_LENGTH))
	}

	if utf8.RuneCountInString(r.Body) > constant.MAX_BODY_LENGTH {
		return invalid("body", fmt.Sprintf("Body must be at most %d characters", constant.MAX_BODY_LENGTH))
	}

	if utf8.RuneCountInString(r.AuthorName) > constant.MAX_AUTHOR_NAME_LENGTH {
		return invalid("author_name", fmt.Sprintf("Author name must be at most %d characters", constant.MAX_AUTHOR_NAME_LENGTH))
	}

	if len(r.UserFingerprint) > constant.MAX_FINGERPRINT_LENGTH {
		return invalid("user_fingerprint", "Fingerprint is too long")
	}

	return nil
}
