package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services and repositories. Handlers map these
// to HTTP status codes in one place.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
	ErrConflict  = errors.New("conflict")
)

// ValidationError marks caller input that must be rejected before persistence.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func Invalid(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
