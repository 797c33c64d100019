package model

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/studychannel/studychannel/internal/constant"
)

const (
	ReportStatusOpen      = "open"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"

	DeletionRequestPending  = "pending"
	DeletionRequestApproved = "approved"
	DeletionRequestRejected = "rejected"
)

type Report struct {
	Id              string    `json:"id"`
	TargetType      string    `json:"target_type"`
	TargetId        string    `json:"target_id"`
	Reason          string    `json:"reason"`
	UserFingerprint string    `json:"user_fingerprint,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

type ReportCreateRequest struct {
	TargetType      string `json:"target_type"`
	TargetId        string `json:"target_id"`
	Reason          string `json:"reason"`
	UserFingerprint string `json:"user_fingerprint"`
}

func (r ReportCreateRequest) Validate() error {
	if r.TargetType != LikeTargetComment && r.TargetType != LikeTargetThread {
		return invalid("target_type", "Target type must be comment or thread")
	}

	if r.TargetId == "" {
		return invalid("target_id", "Target id is required")
	}

	if err := validateReason(r.Reason); err != nil {
		return err
	}

	return validateFingerprint(r.UserFingerprint)
}

type ReportResolveRequest struct {
	Status string `json:"status"`
}

func (r ReportResolveRequest) Validate() error {
	if r.Status != ReportStatusResolved && r.Status != ReportStatusDismissed {
		return invalid("status", "Status must be resolved or dismissed")
	}

	return nil
}

type DeletionRequest struct {
	Id              string    `json:"id"`
	CommentId       string    `json:"comment_id"`
	Reason          string    `json:"reason"`
	UserFingerprint string    `json:"user_fingerprint,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

type DeletionRequestCreateRequest struct {
	CommentId       string `json:"comment_id"`
	Reason          string `json:"reason"`
	UserFingerprint string `json:"user_fingerprint"`
}

func (r DeletionRequestCreateRequest) Validate() error {
	if r.CommentId == "" {
		return invalid("comment_id", "Comment id is required")
	}

	if err := validateReason(r.Reason); err != nil {
		return err
	}

	return validateFingerprint(r.UserFingerprint)
}

func validateReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return invalid("reason", "Reason is required")
	}

	if utf8.RuneCountInString(reason) > constant.MAX_REASON_LENGTH {
		return invalid("reason", fmt.Sprintf("Reason must be at most %d characters", constant.MAX_REASON_LENGTH))
	}

	return nil
}

func validateFingerprint(fingerprint string) error {
	if fingerprint == "" {
		return invalid("user_fingerprint", "Fingerprint is required")
	}

	if len(fingerprint) > constant.MAX_FINGERPRINT_LENGTH {
		return invalid("user_fingerprint", "Fingerprint is too long")
	}

	return nil
}
