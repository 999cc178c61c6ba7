package form

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the wire format of form dates
	DateLayout = "2006-01-02"
	// DisplayDateLayout is the format shown on tracking screens
	DisplayDateLayout = "02 Jan 2006"

	defaultDueDays = 8
)

var acceptedLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	DateLayout,
}

// ParseDate parses the date formats the DOTS and BPMS backends emit
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range acceptedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date: %q", value)
}

// FormatDate formats t as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatDisplayDate formats t for display, e.g. "05 Mar 2024"
func FormatDisplayDate(t time.Time) string {
	return t.Format(DisplayDateLayout)
}

// CurrentDate returns now as YYYY-MM-DD
func CurrentDate(now time.Time) string {
	return FormatDate(now)
}

// YesterdayDate returns the calendar day before now as YYYY-MM-DD
func YesterdayDate(now time.Time) string {
	return FormatDate(now.AddDate(0, 0, -1))
}

// DefaultDueDate returns the default payment due date: eight calendar days after now
func DefaultDueDate(now time.Time) string {
	return FormatDate(now.AddDate(0, 0, defaultDueDays))
}
