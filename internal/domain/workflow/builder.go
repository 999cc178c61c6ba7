package workflow

import (
	"context"
	"fmt"
)

// GuardFunc decides whether a configured transition may be taken
type GuardFunc func(ctx context.Context) bool

// Builder collects transitions and builds state machines from them
type Builder interface {
	// Configure returns the configuration for transitions leaving state
	Configure(state State) StateConfiguration

	// Build returns a machine positioned at initial
	Build(initial State) (StateMachine, error)
}

// StateConfiguration configures transitions leaving one state
type StateConfiguration interface {
	Permit(trigger Trigger, to State) StateConfiguration
	PermitIf(trigger Trigger, to State, guard GuardFunc) StateConfiguration
}

type transition struct {
	to    State
	guard GuardFunc
}

type stateConfig struct {
	triggers    []Trigger
	transitions map[Trigger][]transition
}

type builder struct {
	configs map[State]*stateConfig
}

type machine struct {
	current State
	configs map[State]*stateConfig
}

// NewBuilder returns an empty builder
func NewBuilder() Builder {
	return &builder{configs: make(map[State]*stateConfig)}
}

// Configure panics on malformed states: transitions are wired at start-up from constants.
func (b *builder) Configure(state State) StateConfiguration {
	if !state.IsValid() {
		panic(fmt.Sprintf("invalid state: %s", state))
	}

	cfg, ok := b.configs[state]
	if !ok {
		cfg = &stateConfig{transitions: make(map[Trigger][]transition)}
		b.configs[state] = cfg
	}
	return cfg
}

func (b *builder) Build(initial State) (StateMachine, error) {
	if !initial.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidState, initial)
	}

	configs := make(map[State]*stateConfig, len(b.configs))
	for state, cfg := range b.configs {
		cp := &stateConfig{
			triggers:    append([]Trigger{}, cfg.triggers...),
			transitions: make(map[Trigger][]transition, len(cfg.transitions)),
		}
		for trigger, ts := range cfg.transitions {
			cp.transitions[trigger] = append([]transition{}, ts...)
		}
		configs[state] = cp
	}

	return &machine{current: initial, configs: configs}, nil
}

func (c *stateConfig) Permit(trigger Trigger, to State) StateConfiguration {
	return c.PermitIf(trigger, to, nil)
}

func (c *stateConfig) PermitIf(trigger Trigger, to State, guard GuardFunc) StateConfiguration {
	if !to.IsValid() {
		panic(fmt.Sprintf("invalid target state: %s", to))
	}

	if _, seen := c.transitions[trigger]; !seen {
		c.triggers = append(c.triggers, trigger)
	}
	c.transitions[trigger] = append(c.transitions[trigger], transition{to: to, guard: guard})
	return c
}

func (m *machine) State() State {
	return m.current
}

func (m *machine) target(ctx context.Context, trigger Trigger) (State, error) {
	cfg, ok := m.configs[m.current]
	if !ok || len(cfg.transitions[trigger]) == 0 {
		return "", fmt.Errorf("%w: %s from %s", ErrInvalidTransition, trigger, m.current)
	}

	for _, t := range cfg.transitions[trigger] {
		if t.guard == nil || t.guard(ctx) {
			return t.to, nil
		}
	}
	return "", fmt.Errorf("%w: %s from %s", ErrGuardFailed, trigger, m.current)
}

func (m *machine) CanFire(ctx context.Context, trigger Trigger) bool {
	_, err := m.target(ctx, trigger)
	return err == nil
}

func (m *machine) Fire(ctx context.Context, trigger Trigger) error {
	to, err := m.target(ctx, trigger)
	if err != nil {
		return err
	}
	m.current = to
	return nil
}

func (m *machine) PermittedTriggers(ctx context.Context) []Trigger {
	cfg, ok := m.configs[m.current]
	if !ok {
		return []Trigger{}
	}

	permitted := make([]Trigger, 0, len(cfg.triggers))
	for _, trigger := range cfg.triggers {
		if m.CanFire(ctx, trigger) {
			permitted = append(permitted, trigger)
		}
	}
	return permitted
}
