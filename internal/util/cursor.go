package util

import (
	"encoding/base64"

	"github.com/bytedance/sonic"

	"github.com/studychannel/studychannel/internal/constant"
	"github.com/studychannel/studychannel/internal/model"
)

func EncodeCursor(cursor model.Cursor) (string, error) {
	b, err := sonic.Marshal(cursor)
	if err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

func DecodeCursor(raw string) (model.Cursor, error) {
	var cursor model.Cursor
	if raw == "" {
		return cursor, nil
	}

	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return cursor, invalidCursor()
	}

	err = sonic.Unmarshal(b, &cursor)
	if err != nil {
		return cursor, invalidCursor()
	}

	return cursor, nil
}

func invalidCursor() error {
	return &model.ValidationError{
		Code:    constant.ERR_VALIDATION_CODE,
		Message: "Invalid cursor",
		Param:   "cursor",
	}
}
