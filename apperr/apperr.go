package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a service-level failure with a stable HTTP status and code.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Validation(format string, args ...interface{}) *Error {
	return New(http.StatusBadRequest, "invalid_input", fmt.Errorf(format, args...))
}

func Unauthorized(msg string) *Error {
	return New(http.StatusUnauthorized, "unauthorized", errors.New(msg))
}

func Forbidden(msg string) *Error {
	return New(http.StatusForbidden, "forbidden", errors.New(msg))
}

func NotFound(msg string) *Error {
	return New(http.StatusNotFound, "not_found", errors.New(msg))
}

func Persistence(err error) *Error {
	return New(http.StatusInternalServerError, "persistence_failure", err)
}

// Status extracts the HTTP status for an error, defaulting to 500.
func Status(err error) int {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	return http.StatusInternalServerError
}
