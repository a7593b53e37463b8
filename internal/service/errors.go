// Package service provides business logic for the application.
package service

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Service errors.
var (
	ErrArgumentRequired   = errors.New("argument required")
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrPersonNotFound     = fmt.Errorf("person %w", ErrNotFound)
	ErrCountryExists      = fmt.Errorf("country name already exists: %w", ErrValidation)
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrLoginRateLimited   = errors.New("too many login attempts")
)

// FieldError is a validation message for one request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the per-field messages of a rejected request.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Fields []FieldError
}

// newValidationError builds a ValidationError for a single field.
func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Messages returns the field messages in order.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return msgs
}

// RateLimitError reports a throttled login. It matches ErrLoginRateLimited.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("too many login attempts, retry after %s", e.RetryAfter)
}

// Is reports whether target is ErrLoginRateLimited.
func (e *RateLimitError) Is(target error) bool {
	return target == ErrLoginRateLimited
}
