// Package validation holds small input-parsing helpers shared by the
// resource DTOs.
package validation

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates in request payloads.
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date, returning nil for the empty string so
// optional date fields stay optional.
func ParseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("%s must be a date in the form YYYY-MM-DD", field)
	}
	return &t, nil
}

// FormatDate renders a date pointer for responses, empty when unset.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}
