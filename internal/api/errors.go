package api

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrServer       = errors.New("server error")
	ErrNetwork      = errors.New("network error")
)

const defaultErrorMessage = "Something went wrong"

// Error is a non-2xx response. Message is the server's message verbatim.
type Error struct {
	Status  int
	Message string
	kind    error
}

func (e *Error) Error() string { return e.Message }

// Unwrap returns the sentinel for the status class, so callers can use errors.Is.
func (e *Error) Unwrap() error { return e.kind }

func newError(status int, message string) *Error {
	if message == "" {
		message = defaultErrorMessage
	}
	return &Error{Status: status, Message: message, kind: kindFor(status)}
}

func kindFor(status int) error {
	switch status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	default:
		return ErrServer
	}
}
