package service

import "errors"

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

var (
	// ErrForbidden is returned when the user may not perform the operation at all
	ErrForbidden = errors.New("forbidden")

	// ErrNotEligible is returned when the user's roles do not allow acting on the transaction
	// at its current status
	ErrNotEligible = errors.New("not eligible to act on this transaction")

	// ErrIncompleteForm is returned when required form fields are empty
	ErrIncompleteForm = errors.New("required form fields are missing")

	// ErrInvalidInput is returned for malformed request values
	ErrInvalidInput = errors.New("invalid input")

	// ErrTooLarge is returned when an attachment exceeds the configured size limit
	ErrTooLarge = errors.New("attachment too large")
)
