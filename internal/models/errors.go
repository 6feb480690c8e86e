package models

import (
	"errors"
	"fmt"

	"milktracker/internal/timeutil"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrFormat     = timeutil.ErrFormat
	ErrOrdering   = timeutil.ErrOrdering
	ErrNotFound   = errors.New("not found")
)

// ValidationError describes a rejected entity construction or update.
type ValidationError struct {
	Entity string
	Field  string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s.%s: %v", e.Entity, e.Field, e.Err)
	}
	return fmt.Sprintf("invalid %s: %v", e.Entity, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(entity, field, format string, args ...any) *ValidationError {
	return &ValidationError{Entity: entity, Field: field, Err: fmt.Errorf(format, args...)}
}
