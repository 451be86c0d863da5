package kit

import (
	"errors"
	"net/http"
)

// Error is a classified failure. Handlers return it and the boundary
// translator in WriteError turns it into the response.
type Error struct {
	Status  int
	Message string
	Details []string
}

func (e *Error) Error() string { return e.Message }

func NewError(status int, msg string) *Error {
	return &Error{Status: status, Message: msg}
}

func NotFound(msg string) *Error {
	if msg == "" {
		msg = "Resource not found."
	}
	return &Error{Status: http.StatusNotFound, Message: msg}
}

// Validation keeps details in the order they were collected.
func Validation(msg string, details ...string) *Error {
	if msg == "" {
		msg = "Validation failed."
	}
	return &Error{Status: http.StatusBadRequest, Message: msg, Details: details}
}

func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
