package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned from the core wraps exactly one of these,
// so callers classify with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("access forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

var (
	ErrEmailTaken         = Conflict("email already exists")
	ErrInvalidCredentials = Forbidden("email or password is incorrect")
	ErrSessionAccess      = Forbidden("you cannot access this session")
	ErrInvalidToken       = Unauthorized("invalid or expired token")
)

// kindError carries a caller-facing message on top of one of the kinds above.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func Forbidden(msg string) error    { return &kindError{kind: ErrForbidden, msg: msg} }
func Conflict(msg string) error     { return &kindError{kind: ErrConflict, msg: msg} }
func Unauthorized(msg string) error { return &kindError{kind: ErrUnauthorized, msg: msg} }

// NotFoundError reports a missing entity by resource name and lookup key.
type NotFoundError struct {
	Resource string
	Key      string
}

// NewNotFound builds a NotFoundError, e.g. NewNotFound("device", "DEV-404").
func NewNotFound(resource, key string) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: key}
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// FieldIssue describes one rejected input field.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned for malformed or missing input.
type ValidationError struct {
	Message string
	Issues  []FieldIssue
}

// Invalid builds a ValidationError without field detail.
func Invalid(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		parts = append(parts, is.Message)
	}
	return e.Message + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
