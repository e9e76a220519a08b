// Package period implements the budget period window and the calendar-aware
// daily allowance calculation.
//
// A budget month runs from the 25th of the previous calendar month through
// the 24th of the target month, both inclusive. Weekdays consume the daily
// transfer amount, Fridays additionally the weekend amount, and holidays
// consume nothing (their lost allowance is tracked separately).
package period

import (
	"time"

	"budgetkoll/internal/core"
	"budgetkoll/internal/holiday"
)

// Period is the inclusive date window of a budget month.
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(p.Start) && !d.After(p.End)
}

// DailyBudget is the allowance breakdown for one budget month. All amounts
// are öre.
type DailyBudget struct {
	Period Period

	TotalBudget     int64
	RemainingBudget int64
	// HolidayBudget is what holiday weekdays would have contributed: lost
	// allowance, not money transferred.
	HolidayBudget int64

	WeekdayCount          int
	FridayCount           int
	RemainingWeekdayCount int
	RemainingFridayCount  int

	UpcomingHolidays []holiday.Holiday
}

// ForMonth returns the 25th-to-24th period for a valid month key.
func ForMonth(mk core.MonthKey) Period {
	prev := mk.Prev()
	return Period{
		Start: time.Date(prev.Year(), time.Month(prev.Month()), 25, 0, 0, 0, 0, time.UTC),
		End:   time.Date(mk.Year(), time.Month(mk.Month()), 24, 0, 0, 0, 0, time.UTC),
	}
}

// MonthFor returns the budget month whose period contains t: dates from
// the 25th onward belong to the following calendar month.
func MonthFor(t time.Time) core.MonthKey {
	mk := core.MonthKeyFromTime(t)
	if t.Day() >= 25 {
		return mk.Next()
	}
	return mk
}

// ComputeDailyBudget derives the allowance figures for the given month.
// daily is added for every non-holiday Mon-Fri in the period and weekend on
// top of that for Fridays. today determines the remaining window: past
// months have nothing remaining, the current month counts from today
// through the 25th (rolling to the next month's 25th when today is past the
// 25th), and future months reuse the full period.
func ComputeDailyBudget(mk core.MonthKey, daily, weekend core.Money, cal *holiday.Calendar, today time.Time) (DailyBudget, error) {
	if err := mk.Validate(); err != nil {
		return DailyBudget{}, err
	}

	p := ForMonth(mk)
	b := DailyBudget{Period: p}

	b.TotalBudget, b.HolidayBudget, b.WeekdayCount, b.FridayCount = walk(p.Start, p.End, daily, weekend, cal)

	todayKey := core.MonthKeyFromTime(today)
	switch {
	case mk.Before(todayKey):
		// Fully disbursed.
	case todayKey.Before(mk):
		b.RemainingBudget = b.TotalBudget
		b.RemainingWeekdayCount = b.WeekdayCount
		b.RemainingFridayCount = b.FridayCount
		b.UpcomingHolidays = cal.InRange(p.Start, p.End)
	default:
		end := time.Date(mk.Year(), time.Month(mk.Month()), 25, 0, 0, 0, 0, time.UTC)
		if today.Day() > 25 {
			next := mk.Next()
			end = time.Date(next.Year(), time.Month(next.Month()), 25, 0, 0, 0, 0, time.UTC)
		}
		start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
		b.RemainingBudget, _, b.RemainingWeekdayCount, b.RemainingFridayCount = walk(start, end, daily, weekend, cal)

		from := start
		if from.Before(p.Start) {
			from = p.Start
		}
		if !from.After(p.End) {
			b.UpcomingHolidays = cal.InRange(from, p.End)
		}
	}

	return b, nil
}

// walk iterates every day in [start, end] and accumulates the allowance.
// Holidays are skipped from the totals and counts; what a holiday weekday
// would have contributed is returned separately.
func walk(start, end time.Time, daily, weekend core.Money, cal *holiday.Calendar) (total, lost int64, weekdays, fridays int) {
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		wd := d.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			continue
		}
		if cal.IsHoliday(d) {
			lost += daily.Ore
			if wd == time.Friday {
				lost += weekend.Ore
			}
			continue
		}
		total += daily.Ore
		weekdays++
		if wd == time.Friday {
			total += weekend.Ore
			fridays++
		}
	}
	return total, lost, weekdays, fridays
}
