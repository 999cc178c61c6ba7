package utils

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"golang.org/x/text/currency"
)

var (
	emailRegex      = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	controlChars    = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
	dotsNumberRegex = regexp.MustCompile(`^DOTS-\d{8}-[0-9a-f]{8}$`)
)

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// ValidateAmount validates a transaction amount
func ValidateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("amount is not a number")
	}
	if amount <= 0 {
		return fmt.Errorf("amount must be positive: %.2f", amount)
	}
	return nil
}

// ValidateCurrency checks that code is an ISO 4217 currency code
func ValidateCurrency(code string) error {
	if _, err := currency.ParseISO(strings.TrimSpace(code)); err != nil {
		return fmt.Errorf("invalid currency code: %q", code)
	}
	return nil
}

// ValidateDotsNumber checks the DOTS-<yyyymmdd>-<8 hex> shape
func ValidateDotsNumber(dotsNumber string) error {
	if !dotsNumberRegex.MatchString(dotsNumber) {
		return fmt.Errorf("invalid dots number: %q", dotsNumber)
	}
	return nil
}

// SanitizeString removes control characters, keeping tabs and newlines
func SanitizeString(s string) string {
	return strings.TrimSpace(controlChars.ReplaceAllString(s, ""))
}
