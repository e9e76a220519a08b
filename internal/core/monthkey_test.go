package core

import (
	"errors"
	"testing"
	"time"
)

func TestParseMonthKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "2025-03", false},
		{"valid december", "2024-12", false},
		{"month zero", "2025-00", true},
		{"month thirteen", "2025-13", true},
		{"missing dash", "202503", true},
		{"non numeric year", "20x5-03", true},
		{"non numeric month", "2025-0x", true},
		{"too short", "2025-3", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMonthKey(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseMonthKey(%q) expected error", tt.input)
				}
				if !errors.Is(err, ErrInvalidMonthKey) {
					t.Errorf("ParseMonthKey(%q) error = %v, want ErrInvalidMonthKey", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMonthKey(%q) unexpected error: %v", tt.input, err)
			}
		})
	}
}

func TestMonthKeyPrevNext(t *testing.T) {
	tests := []struct {
		key  MonthKey
		prev MonthKey
		next MonthKey
	}{
		{"2025-03", "2025-02", "2025-04"},
		{"2025-01", "2024-12", "2025-02"},
		{"2024-12", "2024-11", "2025-01"},
	}
	for _, tt := range tests {
		if got := tt.key.Prev(); got != tt.prev {
			t.Errorf("%s.Prev() = %s, want %s", tt.key, got, tt.prev)
		}
		if got := tt.key.Next(); got != tt.next {
			t.Errorf("%s.Next() = %s, want %s", tt.key, got, tt.next)
		}
	}
}

func TestMonthKeyOrdering(t *testing.T) {
	if !MonthKey("2024-12").Before("2025-01") {
		t.Error("2024-12 should be before 2025-01")
	}
	if MonthKey("2025-02").Before("2025-02") {
		t.Error("a key is not before itself")
	}
}

func TestMonthsBetween(t *testing.T) {
	tests := []struct {
		start, end MonthKey
		want       int
	}{
		{"2025-01", "2025-04", 4},
		{"2025-03", "2025-03", 1},
		{"2024-11", "2025-02", 4},
		{"2025-04", "2025-01", 0},
	}
	for _, tt := range tests {
		if got := MonthsBetween(tt.start, tt.end); got != tt.want {
			t.Errorf("MonthsBetween(%s, %s) = %d, want %d", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestMonthKeyFromTime(t *testing.T) {
	got := MonthKeyFromTime(time.Date(2025, time.June, 3, 0, 0, 0, 0, time.UTC))
	if got != "2025-06" {
		t.Errorf("MonthKeyFromTime = %s, want 2025-06", got)
	}
}
