package usecase

import (
	"github.com/google/uuid"

	"github.com/studychannel/studychannel/internal/constant"
	"github.com/studychannel/studychannel/internal/model"
)

func parseId(raw string, param string, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Invalid " + label + " id",
			Param:   param,
		}
	}

	return id, nil
}

func notFound(param string, message string) *model.ValidationError {
	return &model.ValidationError{
		Code:    constant.ERR_NOT_FOUND_ERROR,
		Message: message,
		Param:   param,
	}
}

func clampLimit(limit int, fallback int, max int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > max {
		return max
	}
	return limit
}
