package apperrors

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a resource does not exist or is owned by
	// another user. Callers must not be able to tell the two apart.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("unable to authenticate with provided credentials")
	// ErrUnauthenticated is returned when no valid token accompanies a request.
	ErrUnauthenticated = errors.New("authentication required")
)

// ValidationError carries per-field validation messages. It maps to a 400
// response whose body is the field-to-messages map.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msgs := range e.Fields {
		parts = append(parts, field+": "+strings.Join(msgs, "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {message}}}
}

// Add appends a message for a field, allocating the map if needed.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// AsValidation unwraps err into a *ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
