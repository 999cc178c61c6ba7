package workflow

import "github.com/farhandwi/dots/internal/domain/status"

// State is a DOTS status code used as a state machine state
type State string

// Code parses the state as a status code
func (s State) Code() status.Code {
	return status.Parse(string(s))
}

// IsValid returns true if the state is a well-formed status code of a known family
func (s State) IsValid() bool {
	c := s.Code()
	return len(s) == 4 && c.Valid() && c.Family() != status.FamilyUnknown
}

// IsTerminal returns true for rejected and paid states
func (s State) IsTerminal() bool {
	c := s.Code()
	return c.Family() == status.FamilyRejected || (c.Valid() && c.Ordinal() == status.OrdinalPaid)
}

// String returns the status code
func (s State) String() string {
	return string(s)
}

// StateOf returns the state of family f at the given ordinal
func StateOf(f status.Family, ordinal int) State {
	return State(status.WithOrdinal(f, ordinal).String())
}
