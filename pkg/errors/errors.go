package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for common cases.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInternal            = errors.New("internal error")
	ErrGateway             = errors.New("gateway request failed")
	ErrDecode              = errors.New("malformed payload")
	ErrUnsupportedPlatform = errors.New("unsupported platform")
)

// AppError represents a structured application error with HTTP status mapping.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Unauthorized creates a 401 error.
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// Internal creates a 500 error.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Gateway creates a 502 error carrying the reason a remote cart call failed.
// The local cart snapshot must be left untouched whenever this is returned.
func Gateway(reason string) *AppError {
	return &AppError{
		Code:    "GATEWAY_ERROR",
		Message: reason,
		Status:  http.StatusBadGateway,
		Err:     ErrGateway,
	}
}

// Decode creates an error for a payload that could not be deserialized.
// Callers decide whether to recover (snapshot hydration falls back to an
// empty cart) or to surface it.
func Decode(message string, err error) *AppError {
	return &AppError{
		Code:    "DECODE_ERROR",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     fmt.Errorf("%w: %w", ErrDecode, err),
	}
}

// UnsupportedPlatform creates a 501 error for an action that has no
// implementation on the configured commerce platform. This indicates a
// deployment misconfiguration, not a user condition.
func UnsupportedPlatform(action, platform string) *AppError {
	return &AppError{
		Code:    "UNSUPPORTED_PLATFORM",
		Message: fmt.Sprintf("no %s implementation for platform %q", action, platform),
		Status:  http.StatusNotImplemented,
		Err:     ErrUnsupportedPlatform,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrDecode):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrGateway):
		return http.StatusBadGateway
	case errors.Is(err, ErrUnsupportedPlatform):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
