package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a service failure so the boundary layer can pick the
// right user-facing message without matching error text.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindAuthorization ErrorKind = "authorization"
	KindNotFound      ErrorKind = "not_found"
	KindConflict      ErrorKind = "conflict"
	KindStorage       ErrorKind = "storage"
)

// ServiceError is the only error type that crosses the service boundary.
// Message is safe to show to an end user for every kind except KindStorage,
// whose cause is logged server-side and replaced with generic retry text.
type ServiceError struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *ServiceError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.cause
}

// NewValidationError reports invalid input rejected before any write
func NewValidationError(message string) *ServiceError {
	return &ServiceError{Kind: KindValidation, Message: message}
}

// NewAuthorizationError reports an actor role not permitted to act
func NewAuthorizationError(message string) *ServiceError {
	return &ServiceError{Kind: KindAuthorization, Message: message}
}

// NewNotFoundError reports a missing or inactive record
func NewNotFoundError(message string) *ServiceError {
	return &ServiceError{Kind: KindNotFound, Message: message}
}

// NewConflictError reports an operation invalid for the record's current state
func NewConflictError(message string) *ServiceError {
	return &ServiceError{Kind: KindConflict, Message: message}
}

// NewStorageError wraps a backing-store failure
func NewStorageError(message string, cause error) *ServiceError {
	return &ServiceError{Kind: KindStorage, Message: message, cause: cause}
}

// KindOf extracts the error kind, defaulting to KindStorage for anything that
// is not a ServiceError.
func KindOf(err error) ErrorKind {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindStorage
}
