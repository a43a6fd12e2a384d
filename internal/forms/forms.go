// Package forms normalizes optional form fields.
//
// Every parser here treats an empty or malformed value as "unset" and
// returns nil instead of an error, so handlers can pass the result
// straight into an entity.
package forms

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the only accepted date format: a 4-digit year, month and day.
const DateLayout = "2006-01-02"

// ParseDate converts a YYYY-MM-DD string to a calendar date.
// Returns nil when the input is empty or does not match DateLayout.
func ParseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil
	}
	return &t
}

// ParseOptionalInt parses a base-10 integer, returning nil if absent or invalid.
func ParseOptionalInt(value string) *int {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &n
}

// ParseOptionalID parses an unsigned row ID, returning nil if absent or invalid.
func ParseOptionalID(value string) *uint {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	id, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return nil
	}
	u := uint(id)
	return &u
}

// FormatDate renders an optional date for display, or "" when unset.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}
