package utils

import (
	"fmt"
	"net/http"
)

// CustomError is an error that carries the HTTP status it maps to
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Err     error  `json:"-"`
}

func (e *CustomError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

func (e *CustomError) Unwrap() error { return e.Err }

func NewBadRequestError(message string) *CustomError {
	return &CustomError{Code: http.StatusBadRequest, Message: message}
}

func NewTimeoutError(message string) *CustomError {
	return &CustomError{Code: http.StatusGatewayTimeout, Message: message}
}

func NewValidationError(detail string) *CustomError {
	return &CustomError{Code: http.StatusBadRequest, Message: "Validation failed", Detail: detail}
}
