package workflow

import "errors"

var (
	// ErrInvalidTransition is returned when the trigger is not allowed from the current status
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidState is returned for malformed status codes
	ErrInvalidState = errors.New("invalid status")

	// ErrGuardFailed is returned when every transition for a trigger is guarded out
	ErrGuardFailed = errors.New("guard condition failed")
)
