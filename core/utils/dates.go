package utils

import (
	"fmt"
	"strings"
	"time"
)

// dmyLayout accepts one or two digit days and months.
const dmyLayout = "2/1/2006"

// Date returns the calendar day y-m-d as a UTC midnight time.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the clock part of t, keeping its calendar day.
func Truncate(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// ParseDMY parses a DD/MM/YYYY string into a UTC midnight time.
// Out of range components (e.g. 31/02/2024) are rejected rather than
// normalized.
func ParseDMY(s string) (time.Time, error) {
	t, err := time.Parse(dmyLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}
