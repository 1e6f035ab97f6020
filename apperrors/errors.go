// Package apperrors defines the error kinds surfaced to API clients.
package apperrors

import (
	"sort"
	"strings"

	"github.com/go-faster/errors"
)

// Error kinds. Every failure returned by the services wraps exactly one of these.
var (
	// ErrValidation covers malformed identifiers and record constraint violations.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a lookup by id or email yields nothing.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write collides with existing state,
	// such as a duplicate email at signup.
	ErrConflict = errors.New("conflict")

	// ErrCredentials is returned when login credentials do not match.
	ErrCredentials = errors.New("invalid credentials")
)

// ValidationError lists the offending fields of a rejected record or payload.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrValidation) hold for every ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFound wraps ErrNotFound with the kind of record that was missing.
func NotFound(what string) error {
	return errors.Wrap(ErrNotFound, what)
}

// Conflict wraps ErrConflict with a reason.
func Conflict(reason string) error {
	return errors.Wrap(ErrConflict, reason)
}
