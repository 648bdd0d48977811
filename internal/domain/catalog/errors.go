package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced or requested entity does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned for duplicate names/PCodes and for deletes blocked by children.
	ErrConflict = errors.New("resource conflict")

	// ErrValidation is returned when a required field is missing or a field constraint is violated.
	ErrValidation = errors.New("validation failed")
)

// Error carries a client-facing message together with its kind.
type Error struct {
	Kind    error
	Entity  string
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func NotFound(entity, format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Entity: entity, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

func Invalid(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// Message returns the client-facing text of a catalog error, or fallback for anything else.
func Message(err error, fallback string) string {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Message
	}
	return fallback
}
