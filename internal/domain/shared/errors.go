package shared

import "errors"

// Error codes shared by every layer of the console
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeRemote     = "REMOTE_ERROR"
	CodeNotFound   = "NOT_FOUND"
)

// NotFoundMessage describes a missing remote entity when the store gave no message
const NotFoundMessage = "No encontrado"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches any DomainError carrying the same code, so errors.Is works
// against the sentinels below.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a local validation failure for a form field.
// Validation errors never reach the network.
func NewValidationError(field, message string) *DomainError {
	return &DomainError{
		Code:    CodeValidation,
		Message: message,
		Field:   field,
	}
}

// Common domain errors
var (
	ErrValidation = NewDomainError(CodeValidation, "Invalid input provided")
	ErrRemote     = NewDomainError(CodeRemote, "Remote store request failed")
	ErrNotFound   = NewDomainError(CodeNotFound, "Resource not found")
)

// IsValidation reports whether err is a local validation failure
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFound reports whether err signals a missing remote resource
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
