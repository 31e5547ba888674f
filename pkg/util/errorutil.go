package util

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError standardizes application errors. Code mirrors the HTTP status
// the error is rendered with, matching the response envelope.
type APIError struct {
	Code    int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError constructs an APIError.
func NewAPIError(code int, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

func NewBadRequest(message string) error {
	return NewAPIError(http.StatusBadRequest, message)
}

func NewUnauthorized(message string) error {
	return NewAPIError(http.StatusUnauthorized, message)
}

func NewForbidden(message string) error {
	return NewAPIError(http.StatusForbidden, message)
}

func NewNotFound(resource string) error {
	return NewAPIError(http.StatusNotFound, fmt.Sprintf("%s not found", resource))
}

func NewConflict(message string) error {
	return NewAPIError(http.StatusConflict, message)
}

func NewTooManyRequests(message string) error {
	return NewAPIError(http.StatusTooManyRequests, message)
}

func NewInternalError(err error) error {
	return &APIError{Code: http.StatusInternalServerError, Message: "internal server error", Err: err}
}

// ToAPIError converts generic errors to APIError.
func ToAPIError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &APIError{Code: http.StatusInternalServerError, Message: "internal server error", Err: err}
}
