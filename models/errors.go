package models

import (
	"errors"
	"fmt"
)

// Terminal error taxonomy. Services wrap these; the HTTP layer maps them to
// response codes. None of them are retried internally.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password, so login failures are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError signals malformed or policy-violating input, such as an
// empty assignment set or a cross-department assignment attempt.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
