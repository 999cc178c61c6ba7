package workflow

import "context"

// StateMachine tracks a transaction's status and validates transitions
type StateMachine interface {
	// State returns the current state
	State() State

	// CanFire reports whether the trigger is configured for the current state and at least
	// one of its guards passes
	CanFire(ctx context.Context, trigger Trigger) bool

	// Fire moves to the first target whose guard passes
	Fire(ctx context.Context, trigger Trigger) error

	// PermittedTriggers returns the triggers CanFire accepts, in configuration order
	PermittedTriggers(ctx context.Context) []Trigger
}
