package shared

import (
	"errors"
	"fmt"
)

// ErrorKind groups domain error codes into the categories the transport
// layer reacts to.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindNotFound     ErrorKind = "not_found"
	KindConflict     ErrorKind = "conflict"
	KindUnauthorized ErrorKind = "unauthorized"
	KindInternal     ErrorKind = "internal"
)

// Error codes shared across bounded contexts
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeNotFound           = "NOT_FOUND"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInternal           = "INTERNAL_ERROR"
)

// DomainError represents a domain-level error
type DomainError struct {
	Kind    ErrorKind `json:"-"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so callers
// can match sentinel errors even when the message was specialised.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy of the error carrying a more specific message.
func (e *DomainError) WithMessage(format string, args ...any) *DomainError {
	return &DomainError{
		Kind:    e.Kind,
		Code:    e.Code,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewDomainError creates a new domain error. The kind is derived from the
// well-known codes and defaults to a conflict for business rule codes.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Kind:    kindForCode(code),
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error for a caller mistake
func NewValidationError(message string) *DomainError {
	return &DomainError{Kind: KindValidation, Code: CodeValidation, Message: message}
}

// NewNotFoundError creates a not-found error for the named resource
func NewNotFoundError(resource string) *DomainError {
	return &DomainError{Kind: KindNotFound, Code: CodeNotFound, Message: resource + " not found"}
}

// NewConflictError creates a business rule conflict with its own code
func NewConflictError(code, message string) *DomainError {
	return &DomainError{Kind: KindConflict, Code: code, Message: message}
}

func kindForCode(code string) ErrorKind {
	switch code {
	case CodeValidation, CodeInvalidInput:
		return KindValidation
	case CodeNotFound:
		return KindNotFound
	case CodeInvalidCredentials:
		return KindUnauthorized
	case CodeInternal:
		return KindInternal
	default:
		return KindConflict
	}
}

// KindOf returns the kind of err. Errors that are not domain errors are
// internal.
func KindOf(err error) ErrorKind {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		if domainErr.Kind == "" {
			return kindForCode(domainErr.Code)
		}
		return domainErr.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is a not-found domain error
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsConflict reports whether err is a business rule conflict
func IsConflict(err error) bool {
	return err != nil && KindOf(err) == KindConflict
}

// Common domain errors
var (
	ErrNotFound           = &DomainError{Kind: KindNotFound, Code: CodeNotFound, Message: "Resource not found"}
	ErrInvalidInput       = &DomainError{Kind: KindValidation, Code: CodeInvalidInput, Message: "Invalid input provided"}
	ErrValidation         = &DomainError{Kind: KindValidation, Code: CodeValidation, Message: "Validation failed"}
	ErrInvalidCredentials = &DomainError{Kind: KindUnauthorized, Code: CodeInvalidCredentials, Message: "Invalid username or password"}
)
