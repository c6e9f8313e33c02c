// Package apperr carries an HTTP status alongside service errors so
// controllers can return them unchanged.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Error struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// Wrap keeps cause in the chain without exposing it in Message.
func (e *Error) Wrap(cause error) *Error {
	cp := *e
	cp.Err = cause
	return &cp
}

func NotFound(message string) *Error {
	return newError(http.StatusNotFound, "not_found", message)
}

func BadRequest(message string) *Error {
	return newError(http.StatusBadRequest, "bad_request", message)
}

func Unauthorized(message string) *Error {
	return newError(http.StatusUnauthorized, "unauthorized", message)
}

func Forbidden(message string) *Error {
	return newError(http.StatusForbidden, "forbidden", message)
}

func Conflict(message string) *Error {
	return newError(http.StatusConflict, "conflict", message)
}

func Internal(message string, cause error) *Error {
	return newError(http.StatusInternalServerError, "internal", message).Wrap(cause)
}

func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func hasStatus(err error, status int) bool {
	e, ok := As(err)
	return ok && e.Status == status
}

func IsNotFound(err error) bool     { return hasStatus(err, http.StatusNotFound) }
func IsBadRequest(err error) bool   { return hasStatus(err, http.StatusBadRequest) }
func IsUnauthorized(err error) bool { return hasStatus(err, http.StatusUnauthorized) }
func IsForbidden(err error) bool    { return hasStatus(err, http.StatusForbidden) }
func IsConflict(err error) bool     { return hasStatus(err, http.StatusConflict) }
