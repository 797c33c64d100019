package model

import "time"

const (
	LikeTargetComment = "comment"
	LikeTargetThread  = "thread"
)

type Like struct {
	TargetType      string
	TargetId        string
	UserFingerprint string
	CreatedAt       time.Time
}

type LikeCreateRequest struct {
	TargetType      string `json:"target_type"`
	TargetId        string `json:"target_id"`
	UserFingerprint string `json:"user_fingerprint"`
}

func (r LikeCreateRequest) Validate() error {
	if r.TargetType != LikeTargetComment && r.TargetType != LikeTargetThread {
		return invalid("target_type", "Target type must be comment or thread")
	}

	if r.TargetId == "" {
		return invalid("target_id", "Target id is required")
	}

	return validateFingerprint(r.UserFingerprint)
}

type LikeResponse struct {
	LikeCount int `json:"like_count"`
}
