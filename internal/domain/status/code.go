// Package status models DOTS status codes and the step sequence shown on tracking screens.
//
// A status code is a four character string: the leading digit is the lifecycle family and the
// trailing three digits are the ordinal step within that family ("1020", "2030", "3010").
package status

import (
	"strconv"
)

// Family is the lifecycle family encoded in the first digit of a status code
type Family int

const (
	FamilyUnknown Family = iota
	FamilyCashAdvance
	FamilyGeneral
	FamilyRejected
)

// String returns the family name
func (f Family) String() string {
	switch f {
	case FamilyCashAdvance:
		return "cash_advance"
	case FamilyGeneral:
		return "general"
	case FamilyRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Prefix returns the leading digit of codes in the family
func (f Family) Prefix() string {
	switch f {
	case FamilyCashAdvance:
		return "1"
	case FamilyGeneral:
		return "2"
	case FamilyRejected:
		return "3"
	default:
		return ""
	}
}

// Code is a parsed status code. The ordinal is only meaningful when Valid reports true;
// comparisons involving an invalid code are always false.
type Code struct {
	raw     string
	family  Family
	ordinal int
	valid   bool
}

// Parse splits a raw status code into family and ordinal. It never fails: an unparseable
// suffix yields a Code whose ordinal comparisons are all false.
func Parse(raw string) Code {
	c := Code{raw: raw}
	if raw == "" {
		return c
	}

	switch raw[0] {
	case '1':
		c.family = FamilyCashAdvance
	case '2':
		c.family = FamilyGeneral
	case '3':
		c.family = FamilyRejected
	}

	n, err := strconv.Atoi(raw[1:])
	if err != nil {
		return c
	}
	c.ordinal = n
	c.valid = true
	return c
}

// String returns the raw code
func (c Code) String() string { return c.raw }

// Family returns the lifecycle family
func (c Code) Family() Family { return c.family }

// Ordinal returns the step ordinal (the trailing digits as an integer)
func (c Code) Ordinal() int { return c.ordinal }

// Valid reports whether the ordinal could be parsed
func (c Code) Valid() bool { return c.valid }

// AtMost reports whether c's ordinal is less than or equal to other's.
// The family digit is ignored.
func (c Code) AtMost(other Code) bool {
	return c.valid && other.valid && c.ordinal <= other.ordinal
}

// Exceeds reports whether c's ordinal is strictly greater than other's.
func (c Code) Exceeds(other Code) bool {
	return c.valid && other.valid && c.ordinal > other.ordinal
}

// WithOrdinal returns the code in family f at the given ordinal
func WithOrdinal(f Family, ordinal int) Code {
	return Parse(f.Prefix() + pad3(ordinal))
}

func pad3(n int) string {
	s := strconv.Itoa(n)
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}
