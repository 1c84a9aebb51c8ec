// Package apperr holds the error taxonomy shared by services, usecases and
// the HTTP layer. Specific errors wrap one of these so handlers can map them
// to a status code with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUpstream     = errors.New("upstream error")
)

// New returns an error with the given message that matches kind under errors.Is
func New(kind error, message string) error {
	return &kindError{kind: kind, message: message}
}

// Upstream wraps a failure of an external collaborator
func Upstream(op string, err error) error {
	return &kindError{kind: ErrUpstream, message: op, cause: err}
}

type kindError struct {
	kind    error
	message string
	cause   error
}

func (e *kindError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *kindError) Is(target error) bool {
	return target == e.kind
}

func (e *kindError) Unwrap() error {
	return e.cause
}

// Message returns the client-safe message of err
func Message(err error) string {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.message
	}
	return err.Error()
}
