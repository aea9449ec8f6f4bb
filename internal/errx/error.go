// Package errx carries HTTP-aware application errors between the storage
// layers and the echo handlers.
package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage   = "internal server error"
	RedisErrorMessage    = "redis operation failed"
	RedisNotFoundMessage = "record not found"
	DatabaseErrorMessage = "database operation failed"
	DatabaseNotFoundMsg  = "record not found"
	ExportFailedMessage  = "could not generate the document, please try again"
)

// AppError wraps an underlying error with an HTTP status and safe message.
type AppError struct {
	Err     error
	Status  int
	Message string
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

func NotFound(message string) *AppError {
	return New(nil, http.StatusNotFound, message)
}

func BadRequest(message string) *AppError {
	return New(nil, http.StatusBadRequest, message)
}

// Status resolves the HTTP status and safe message for any error. Errors that
// are not AppErrors map to 500 with the generic message.
func Status(err error) (int, string) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status, appErr.Message
	}
	return http.StatusInternalServerError, SystemErrorMessage
}
