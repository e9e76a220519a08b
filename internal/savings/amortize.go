// Package savings amortizes savings goals over their month ranges.
package savings

import (
	"budgetkoll/internal/core"
)

// MonthCount returns the inclusive number of months a goal spans.
func MonthCount(g core.SavingsGoal) int {
	return core.MonthsBetween(g.StartMonth, g.EndMonth)
}

// MonthlyContribution returns the goal's amortized contribution in öre for
// the given month: the floor share of the target for every month in range,
// with the division remainder landing on the final month so the
// contributions sum exactly to the target. Months outside the range
// contribute 0.
func MonthlyContribution(g core.SavingsGoal, mk core.MonthKey) (int64, error) {
	if g.EndMonth.Before(g.StartMonth) {
		return 0, core.ErrGoalRange
	}
	if err := mk.Validate(); err != nil {
		return 0, err
	}
	if mk.Before(g.StartMonth) || g.EndMonth.Before(mk) {
		return 0, nil
	}

	n := int64(MonthCount(g))
	share := g.TargetAmount.Ore / n
	if mk == g.EndMonth {
		return g.TargetAmount.Ore - share*(n-1), nil
	}
	return share, nil
}
