package services

import (
	stderrors "errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an identifier does not resolve to a record.
	ErrNotFound = stderrors.New("not found")

	// ErrPermissionDenied is returned when the caller lacks a required permission.
	ErrPermissionDenied = stderrors.New("permission denied")

	// ErrUnauthenticated is returned when no caller could be identified.
	ErrUnauthenticated = stderrors.New("authentication required")

	// ErrConflict is returned on unique or referential violations.
	ErrConflict = stderrors.New("conflict")
)

// ValidationError reports a rejected field value. No state was changed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

func invalid(field, msg string) error { return NewValidationError(field, msg) }

// AsValidation unwraps a *ValidationError from err.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stderrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
