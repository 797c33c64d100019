package model

import "github.com/studychannel/studychannel/internal/constant"

type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Param   string `json:"param"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(param string, message string) *ValidationError {
	return &ValidationError{
		Code:    constant.ERR_VALIDATION_CODE,
		Message: message,
		Param:   param,
	}
}
