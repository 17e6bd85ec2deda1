package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrBadRequest       = errors.New("bad request")
	ErrBlankUsername    = errors.New("please enter a username")
	ErrBackend          = errors.New("backend returned an error")
	ErrMalformedPayload = errors.New("malformed backend payload")
	ErrTransport        = errors.New("backend unreachable")
	ErrRequestInFlight  = errors.New("a request is already in progress")
)

// AppError is a custom error type that can hold an HTTP status code
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ServerMessage returns the message the backend attached to err, if any.
func ServerMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ""
}

// MapErrorToStatus maps common errors to HTTP status codes
func MapErrorToStatus(err error) int {
	if errors.Is(err, ErrBlankUsername) || errors.Is(err, ErrBadRequest) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrRequestInFlight) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrTransport) {
		return http.StatusServiceUnavailable
	}
	if errors.Is(err, ErrMalformedPayload) {
		return http.StatusBadGateway
	}
	if errors.Is(err, ErrBackend) {
		// backend statuses are passed through as-is
		var appErr *AppError
		if errors.As(err, &appErr) && appErr.Code >= 400 && appErr.Code < 600 {
			return appErr.Code
		}
		return http.StatusBadGateway
	}
	// Default to internal server error
	return http.StatusInternalServerError
}
