// Package services orchestrates the budget engine over the SQLite system
// of record and publishes change events for the recompute worker.
package services

import (
	"context"
	"fmt"
	"time"

	"budgetkoll/internal/core"
	"budgetkoll/internal/holiday"
	"budgetkoll/internal/ledger"
	"budgetkoll/internal/period"
	"budgetkoll/internal/reconcile"
	"budgetkoll/internal/savings"
	"budgetkoll/internal/storage"
)

// MonthView is the full per-month result handed to the UI layer: the
// ledger summary plus the daily allowance breakdown. All figures are öre.
type MonthView struct {
	Summary core.MonthSummary
	Budget  period.DailyBudget
}

// SummaryService assembles month views from stored state. It is read-only;
// mutations go through BudgetService.
type SummaryService struct {
	storage *storage.SQLiteRepository
}

func NewSummaryService(storage *storage.SQLiteRepository) *SummaryService {
	return &SummaryService{storage: storage}
}

// Calendar builds the holiday calendar including the user's custom
// holidays.
func (s *SummaryService) Calendar(ctx context.Context) (*holiday.Calendar, error) {
	custom, err := s.storage.CustomHolidays(ctx)
	if err != nil {
		return nil, fmt.Errorf("load custom holidays: %w", err)
	}
	return holiday.NewCalendar(custom), nil
}

// MonthView computes the complete summary for one month. today anchors the
// remaining-budget window; callers pass the clock so the engine stays
// deterministic.
//
// The ledger is recomputed over the whole history in ascending month order
// before the requested month is read, so estimates are always fresh even
// when earlier months changed since the last worker pass. Anomalies are
// returned alongside the totals, never instead of them.
func (s *SummaryService) MonthView(ctx context.Context, mk core.MonthKey, today time.Time) (MonthView, error) {
	if err := mk.Validate(); err != nil {
		return MonthView{}, err
	}

	cal, err := s.Calendar(ctx)
	if err != nil {
		return MonthView{}, err
	}

	daily, weekend, err := s.storage.TransferSettings(ctx)
	if err != nil {
		return MonthView{}, err
	}

	budget, err := period.ComputeDailyBudget(mk, daily, weekend, cal, today)
	if err != nil {
		return MonthView{}, err
	}

	snap, err := s.storage.Snapshot(ctx)
	if err != nil {
		return MonthView{}, err
	}
	snap.Balances = ledger.RecomputeAll(snap, cal)
	// A month with no recorded data still inherits estimates from the
	// chain behind it.
	if _, ok := snap.Balances[mk]; !ok {
		snap.Balances[mk] = ledger.Recompute(snap, mk, cal)
	}

	graph, err := s.storage.CategoryGraph(ctx)
	if err != nil {
		return MonthView{}, err
	}

	p := period.ForMonth(mk)
	txs, err := s.storage.TransactionsInRange(ctx, p.Start, p.End)
	if err != nil {
		return MonthView{}, err
	}

	goals, err := s.storage.Goals(ctx)
	if err != nil {
		return MonthView{}, err
	}

	matcher := reconcile.NewMatcher(graph, snap.Accounts)
	summary := core.MonthSummary{
		Month:  mk,
		Locked: snap.Flags[mk],
	}

	for _, acc := range snap.Accounts {
		row := snap.Balances[mk][acc.ID]
		as := core.AccountSummary{
			AccountID:        acc.ID,
			AccountName:      acc.Name,
			EstimatedOpening: row.EstimatedOpening,
			EstimatedClosing: row.EstimatedClosing,
			Actual:           row.Actual,
			IsSet:            row.IsSet,
			BankBalance:      matcher.LatestBankBalance(acc.ID, p, txs),
		}
		// Diagnostic only: the diff never feeds back into propagation.
		if row.IsSet {
			as.Diff = row.Actual - row.EstimatedClosing
		}
		summary.Accounts = append(summary.Accounts, as)
	}

	items := snap.Items[mk]
	for _, cat := range graph.Categories {
		summary.Categories = append(summary.Categories, core.CategorySummary{
			CategoryID: cat.ID,
			Budgeted:   budgetedForCategory(cat, items, p, cal),
			Actual:     matcher.ActualForCategory(cat.ID, txs),
		})
	}

	for _, goal := range goals {
		amortized, err := savings.MonthlyContribution(goal, mk)
		if err != nil {
			return MonthView{}, fmt.Errorf("amortize goal %s: %w", goal.ID, err)
		}
		summary.Savings = append(summary.Savings, core.SavingsSummary{
			GoalID:    goal.ID,
			Amortized: amortized,
			Actual:    matcher.ActualForSavingsTarget(goal.ID, txs),
		})
	}

	summary.Anomalies = matcher.Anomalies(txs)

	return MonthView{Summary: summary, Budget: budget}, nil
}

// RecomputeAndStore recalculates every recorded month in ascending order
// and persists the fresh estimates. Returns the recomputed month keys. One
// month's rows never block another's: the ledger math is total.
func (s *SummaryService) RecomputeAndStore(ctx context.Context) ([]core.MonthKey, error) {
	cal, err := s.Calendar(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := s.storage.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	balances := ledger.RecomputeAll(snap, cal)
	keys := ledger.MonthKeys(snap)
	for _, mk := range keys {
		if err := s.storage.SaveBalances(ctx, mk, balances[mk]); err != nil {
			return nil, fmt.Errorf("store balances for %s: %w", mk, err)
		}
	}
	return keys, nil
}

// Categories returns the main/sub category structure.
func (s *SummaryService) Categories(ctx context.Context) (core.CategoryGraph, error) {
	return s.storage.CategoryGraph(ctx)
}

// CustomHolidays lists the user-defined holidays.
func (s *SummaryService) CustomHolidays(ctx context.Context) ([]holiday.Holiday, error) {
	return s.storage.CustomHolidays(ctx)
}

// Accounts lists the configured accounts.
func (s *SummaryService) Accounts(ctx context.Context) ([]core.Account, error) {
	return s.storage.Accounts(ctx)
}

// Items lists a month's budget items.
func (s *SummaryService) Items(ctx context.Context, mk core.MonthKey) ([]core.BudgetItem, error) {
	if err := mk.Validate(); err != nil {
		return nil, err
	}
	return s.storage.ItemsForMonth(ctx, mk)
}

// Goals lists the savings goals.
func (s *SummaryService) Goals(ctx context.Context) ([]core.SavingsGoal, error) {
	return s.storage.Goals(ctx)
}

// TransferSettings returns the daily and weekend transfer amounts.
func (s *SummaryService) TransferSettings(ctx context.Context) (daily, weekend core.Money, err error) {
	return s.storage.TransferSettings(ctx)
}

// budgetedForCategory sums the monthly allocations of a category's cost
// items, returned as a positive budget figure.
func budgetedForCategory(cat core.Category, items []core.BudgetItem, p period.Period, cal *holiday.Calendar) int64 {
	sub := make(map[string]bool, len(cat.SubIDs))
	for _, id := range cat.SubIDs {
		sub[id] = true
	}
	var total int64
	for _, it := range items {
		if it.Kind != core.ItemCost {
			continue
		}
		if it.MainCategoryID == cat.ID || (it.SubCategoryID != "" && sub[it.SubCategoryID]) {
			total += ledger.EffectiveMonthlyAmount(it, p, cal)
		}
	}
	return total
}
