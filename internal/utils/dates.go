package utils

import (
	"fmt"
	"strings"
	"time"
)

// dateOnly is the wire format for date query parameters and payload fields.
const dateOnly = "2006-01-02"

// ParseDate parses a calendar date in YYYY-MM-DD form into a UTC instant at
// midnight. The empty string is not a valid date; callers that treat absence
// as "no bound" must check for it first.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t.UTC(), nil
}

// EndOfDay shifts a midnight instant to the last nanosecond of the same day,
// so the value can serve as an inclusive upper bound.
func EndOfDay(t time.Time) time.Time {
	return t.Add(24*time.Hour - time.Nanosecond)
}
