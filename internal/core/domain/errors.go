package domain

import (
	"errors"
	"strings"
)

var (
	ErrDuplicateEmail     = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidToken       = errors.New("invalid token")
)

// ValidationError reports malformed input detected before any mutation.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return "validation failed"
	}
	return strings.Join(e.Details, "; ")
}

// NewValidationError builds a ValidationError from one or more messages.
func NewValidationError(details ...string) *ValidationError {
	return &ValidationError{Details: details}
}
