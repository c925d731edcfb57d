package instance

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an id does not resolve within the instance.
var ErrNotFound = errors.New("not found")

// ValidationError is a missing or malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

func notFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}
