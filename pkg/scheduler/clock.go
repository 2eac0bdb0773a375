package scheduler

import (
	"time"

	"github.com/pkg/errors"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// ValidDate reports whether s is a zero-padded YYYY-MM-DD calendar date
func ValidDate(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ValidClock reports whether s is a zero-padded 24h HH:mm time
func ValidClock(s string) bool {
	if len(s) != len(ClockLayout) {
		return false
	}
	_, err := time.Parse(ClockLayout, s)
	return err == nil
}

// Today is the UTC date in the stored shift date form
func Today(now time.Time) string {
	return now.UTC().Format(DateLayout)
}

// DurationHours calculates the length of an HH:mm window in hours. An end at or
// before the start runs past midnight.
func DurationHours(start, end string) (float64, error) {
	s, err := time.Parse(ClockLayout, start)
	if err != nil {
		return 0, errors.Wrapf(err, "parse start time %q", start)
	}
	e, err := time.Parse(ClockLayout, end)
	if err != nil {
		return 0, errors.Wrapf(err, "parse end time %q", end)
	}
	if !e.After(s) {
		e = e.Add(24 * time.Hour)
	}
	return e.Sub(s).Hours(), nil
}
