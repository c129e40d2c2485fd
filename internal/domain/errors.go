package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Error kinds. Every error returned by a service unwraps to at most one of
// these; anything else is an internal failure.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

// Error carries a caller-facing message for one of the error kinds.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// NewError builds an Error of the given kind.
func NewError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ValidateID reports InvalidArgument when id is not a well-formed identifier.
func ValidateID(field, id string) error {
	if id == "" {
		return NewError(ErrInvalidArgument, "%s is required", field)
	}
	// only the canonical dashed form; uuid.Parse also takes braces, urn:uuid: and bare hex
	parsed, err := uuid.Parse(id)
	if err != nil || parsed.String() != strings.ToLower(id) {
		return NewError(ErrInvalidArgument, "%s is not a valid id", field)
	}
	return nil
}
