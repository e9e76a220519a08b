package savings

import (
	"errors"
	"testing"

	"budgetkoll/internal/core"
)

func goal(target int64, start, end core.MonthKey) core.SavingsGoal {
	return core.SavingsGoal{
		ID:           "g1",
		Name:         "Semester",
		AccountID:    "a1",
		TargetAmount: core.Money{Ore: target},
		StartMonth:   start,
		EndMonth:     end,
	}
}

func TestMonthCount(t *testing.T) {
	tests := []struct {
		start, end core.MonthKey
		want       int
	}{
		{"2025-01", "2025-04", 4},
		{"2025-06", "2025-06", 1},
		{"2024-10", "2025-03", 6},
	}
	for _, tt := range tests {
		if got := MonthCount(goal(120000, tt.start, tt.end)); got != tt.want {
			t.Errorf("MonthCount(%s..%s) = %d, want %d", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestMonthlyContributionEvenSplit(t *testing.T) {
	// 1200 kr over exactly 4 months: 300 kr each, 0 outside the range.
	g := goal(120000, "2025-01", "2025-04")

	for _, mk := range []core.MonthKey{"2025-01", "2025-02", "2025-03", "2025-04"} {
		got, err := MonthlyContribution(g, mk)
		if err != nil {
			t.Fatalf("MonthlyContribution(%s): %v", mk, err)
		}
		if got != 30000 {
			t.Errorf("MonthlyContribution(%s) = %d, want 30000", mk, got)
		}
	}

	for _, mk := range []core.MonthKey{"2024-12", "2025-05", "2026-01"} {
		got, err := MonthlyContribution(g, mk)
		if err != nil {
			t.Fatalf("MonthlyContribution(%s): %v", mk, err)
		}
		if got != 0 {
			t.Errorf("MonthlyContribution(%s) = %d, want 0 outside range", mk, got)
		}
	}
}

func TestMonthlyContributionRemainderOnFinalMonth(t *testing.T) {
	// 1000 kr over 3 months: 333,33 + 333,33 + 333,34.
	g := goal(100000, "2025-01", "2025-03")

	var sum int64
	want := map[core.MonthKey]int64{
		"2025-01": 33333,
		"2025-02": 33333,
		"2025-03": 33334,
	}
	for mk, w := range want {
		got, err := MonthlyContribution(g, mk)
		if err != nil {
			t.Fatalf("MonthlyContribution(%s): %v", mk, err)
		}
		if got != w {
			t.Errorf("MonthlyContribution(%s) = %d, want %d", mk, got, w)
		}
		sum += got
	}
	if sum != g.TargetAmount.Ore {
		t.Errorf("contributions sum to %d, want target %d", sum, g.TargetAmount.Ore)
	}
}

func TestMonthlyContributionSingleMonth(t *testing.T) {
	g := goal(50000, "2025-06", "2025-06")
	got, err := MonthlyContribution(g, "2025-06")
	if err != nil {
		t.Fatalf("MonthlyContribution: %v", err)
	}
	if got != 50000 {
		t.Errorf("single-month goal contributes %d, want full 50000", got)
	}
}

func TestMonthlyContributionErrors(t *testing.T) {
	g := goal(50000, "2025-06", "2025-02")
	if _, err := MonthlyContribution(g, "2025-03"); !errors.Is(err, core.ErrGoalRange) {
		t.Errorf("reversed range: got %v, want ErrGoalRange", err)
	}

	ok := goal(50000, "2025-01", "2025-06")
	if _, err := MonthlyContribution(ok, "2025-0x"); !errors.Is(err, core.ErrInvalidMonthKey) {
		t.Errorf("bad month key: got %v, want ErrInvalidMonthKey", err)
	}
}
