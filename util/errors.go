package util

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies failures so the HTTP layer can pick a status code
// without knowing where the error came from.
type ErrorKind string

const (
	KindValidation      ErrorKind = "ValidationError"
	KindNotFound        ErrorKind = "NotFound"
	KindForbidden       ErrorKind = "Forbidden"
	KindUnauthorized    ErrorKind = "Unauthorized"
	KindSlotConflict    ErrorKind = "SlotConflict"
	KindDuplicateKey    ErrorKind = "DuplicateKey"
	KindTooManyRequests ErrorKind = "TooManyRequests"
	KindServer          ErrorKind = "ServerError"
)

type AppError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func newError(kind ErrorKind, msg string) *AppError {
	return &AppError{Kind: kind, Message: msg}
}

func Validation(msg string) *AppError      { return newError(KindValidation, msg) }
func NotFound(msg string) *AppError        { return newError(KindNotFound, msg) }
func Forbidden(msg string) *AppError       { return newError(KindForbidden, msg) }
func Unauthorized(msg string) *AppError    { return newError(KindUnauthorized, msg) }
func SlotConflict(msg string) *AppError    { return newError(KindSlotConflict, msg) }
func DuplicateKey(msg string) *AppError    { return newError(KindDuplicateKey, msg) }
func TooManyRequests(msg string) *AppError { return newError(KindTooManyRequests, msg) }

// Internal wraps an unexpected failure. The cause is kept for logging and
// never shown to the caller.
func Internal(cause error) *AppError {
	return &AppError{Kind: KindServer, Message: INTERNAL_SERVER_ERROR, Cause: cause}
}

// AsAppError unwraps err into an *AppError, treating anything unknown as a
// server error.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

func StatusCode(kind ErrorKind) int {
	switch kind {
	case KindValidation, KindSlotConflict, KindDuplicateKey:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
