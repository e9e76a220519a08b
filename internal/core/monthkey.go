package core

import (
	"fmt"
	"strconv"
	"time"
)

// MonthKey identifies a budget month as "YYYY-MM". It is the sole temporal
// identifier in the engine; lexicographic order on valid keys equals
// chronological order.
type MonthKey string

// NewMonthKey builds a key from a year and a 1-based month.
func NewMonthKey(year, month int) MonthKey {
	return MonthKey(fmt.Sprintf("%04d-%02d", year, month))
}

// MonthKeyFromTime returns the key for the month containing t.
func MonthKeyFromTime(t time.Time) MonthKey {
	return NewMonthKey(t.Year(), int(t.Month()))
}

// ParseMonthKey validates and returns a MonthKey. Malformed keys
// (non-numeric parts, month outside 1-12) fail fast; there is no fallback
// to the current month.
func ParseMonthKey(s string) (MonthKey, error) {
	k := MonthKey(s)
	if err := k.Validate(); err != nil {
		return "", err
	}
	return k, nil
}

// Validate checks the YYYY-MM shape.
func (k MonthKey) Validate() error {
	s := string(k)
	if len(s) != 7 || s[4] != '-' {
		return fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil || year < 1 {
		return fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
	}
	month, err := strconv.Atoi(s[5:])
	if err != nil || month < 1 || month > 12 {
		return fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
	}
	return nil
}

// Year returns the key's year. The key must be valid.
func (k MonthKey) Year() int {
	y, _ := strconv.Atoi(string(k)[:4])
	return y
}

// Month returns the key's 1-based month. The key must be valid.
func (k MonthKey) Month() int {
	m, _ := strconv.Atoi(string(k)[5:])
	return m
}

// Prev returns the previous calendar month's key.
func (k MonthKey) Prev() MonthKey {
	y, m := k.Year(), k.Month()
	if m == 1 {
		return NewMonthKey(y-1, 12)
	}
	return NewMonthKey(y, m-1)
}

// Next returns the following calendar month's key.
func (k MonthKey) Next() MonthKey {
	y, m := k.Year(), k.Month()
	if m == 12 {
		return NewMonthKey(y+1, 1)
	}
	return NewMonthKey(y, m+1)
}

// Before reports whether k is chronologically earlier than other.
func (k MonthKey) Before(other MonthKey) bool {
	return string(k) < string(other)
}

// MonthsBetween returns the inclusive number of months from start to end.
// Returns 0 when end precedes start.
func MonthsBetween(start, end MonthKey) int {
	if end.Before(start) {
		return 0
	}
	return (end.Year()-start.Year())*12 + (end.Month() - start.Month()) + 1
}
