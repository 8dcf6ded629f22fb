package models

import (
	"fmt"
	"time"
)

// ClockLayout is the wall-clock format used for rule windows and slot starts.
// Exact string equality on this format is the booking conflict key.
const ClockLayout = "15:04:05"

// DateLayout is the calendar-date format used for overrides and appointments.
const DateLayout = "2006-01-02"

// ParseClock parses a time-of-day. Seconds are optional on input; stored
// values always carry them.
func ParseClock(s string) (time.Time, error) {
	if t, err := time.Parse(ClockLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock time %q", s)
	}
	return t, nil
}

// NormalizeClock rewrites a clock string into canonical HH:MM:SS form.
func NormalizeClock(s string) (string, error) {
	t, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return t.Format(ClockLayout), nil
}

// ParseDate parses a calendar date with no time component.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}
