package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies application errors for transport-level mapping.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindInvalidState Kind = "invalid_state"
	KindUnavailable  Kind = "unavailable"
)

// AppError is a domain-level error carrying a classification.
type AppError struct {
	Kind    Kind
	Message string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return e.Message
}

// NewValidationError creates an error for malformed or rejected input.
func NewValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

// NewNotFoundError creates an error for a missing entity.
func NewNotFoundError(entity, id string) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found: %s", entity, id)}
}

// NewInvalidStateError creates an error for an illegal state transition.
func NewInvalidStateError(from, to string) *AppError {
	return &AppError{Kind: KindInvalidState, Message: fmt.Sprintf("invalid transition from %s to %s", from, to)}
}

// NewUnavailableError creates an error for an unreachable collaborator.
func NewUnavailableError(message string) *AppError {
	return &AppError{Kind: KindUnavailable, Message: message}
}

// KindOf extracts the classification from err, or an empty Kind when err is
// not an AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsInvalidState reports whether err is an invalid-state error.
func IsInvalidState(err error) bool { return KindOf(err) == KindInvalidState }

// IsUnavailable reports whether err is an unavailable error.
func IsUnavailable(err error) bool { return KindOf(err) == KindUnavailable }
