package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"budgetkoll/internal/core"
	"budgetkoll/internal/holiday"
	"budgetkoll/internal/ledger"
	"budgetkoll/internal/period"
	"budgetkoll/internal/storage"
)

// ChangePublisher pushes month-change events to the recompute worker.
// *amqp.Client satisfies it.
type ChangePublisher interface {
	PublishMonthChanged(ctx context.Context, mk core.MonthKey, reason string) error
}

// BudgetService applies mutations: it persists, runs the lock-invalidation
// cascade, and publishes a change event. Events are best-effort: the local
// write is authoritative and a missing broker never fails the request.
type BudgetService struct {
	storage   *storage.SQLiteRepository
	publisher ChangePublisher
}

func NewBudgetService(storage *storage.SQLiteRepository, publisher ChangePublisher) *BudgetService {
	return &BudgetService{storage: storage, publisher: publisher}
}

// PutAccount creates or renames an account. Accounts carry no money of
// their own, so no invalidation is needed.
func (s *BudgetService) PutAccount(ctx context.Context, a core.Account) (core.Account, error) {
	if strings.TrimSpace(a.Name) == "" {
		return core.Account{}, core.ErrEmptyName
	}
	return s.storage.PutAccount(ctx, a)
}

// PutCategory creates or renames a main category. Category structure
// carries no amounts, so no invalidation is needed.
func (s *BudgetService) PutCategory(ctx context.Context, id, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", core.ErrEmptyName
	}
	return s.storage.PutCategory(ctx, id, name)
}

// PutSubcategory creates or moves a subcategory under a main category.
func (s *BudgetService) PutSubcategory(ctx context.Context, id, categoryID, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", core.ErrEmptyName
	}
	return s.storage.PutSubcategory(ctx, id, categoryID, name)
}

// PutCustomHoliday stores a user-defined holiday. Holidays change daily
// allowances everywhere, so the cascade starts at the earliest month.
func (s *BudgetService) PutCustomHoliday(ctx context.Context, h holiday.Holiday) error {
	if strings.TrimSpace(h.Name) == "" {
		return core.ErrEmptyName
	}
	if err := s.storage.PutCustomHoliday(ctx, h); err != nil {
		return err
	}
	snap, err := s.storage.Snapshot(ctx)
	if err != nil {
		return err
	}
	earliest, ok := ledger.EarliestMonth(snap)
	if !ok {
		return nil
	}
	return s.invalidateAndPublish(ctx, earliest, "holiday")
}

// SetActualBalance stores or clears (value == nil) the user-entered
// balance for an account in a month, then invalidates the month and every
// later month's final flag.
func (s *BudgetService) SetActualBalance(ctx context.Context, mk core.MonthKey, accountID string, value *int64) error {
	if err := mk.Validate(); err != nil {
		return err
	}
	if err := s.checkAccount(ctx, accountID); err != nil {
		return err
	}
	if err := s.storage.SetActualBalance(ctx, mk, accountID, value); err != nil {
		return fmt.Errorf("set actual balance: %w", err)
	}
	return s.invalidateAndPublish(ctx, mk, "balance")
}

// PutBudgetItem validates and stores a cost or savings item for a month.
func (s *BudgetService) PutBudgetItem(ctx context.Context, mk core.MonthKey, item core.BudgetItem) (core.BudgetItem, error) {
	if err := mk.Validate(); err != nil {
		return core.BudgetItem{}, err
	}
	if err := item.Validate(); err != nil {
		return core.BudgetItem{}, err
	}
	if err := s.checkAccount(ctx, item.AccountID); err != nil {
		return core.BudgetItem{}, err
	}
	saved, err := s.storage.PutItem(ctx, mk, item)
	if err != nil {
		return core.BudgetItem{}, fmt.Errorf("put budget item: %w", err)
	}
	return saved, s.invalidateAndPublish(ctx, mk, "item")
}

// DeleteBudgetItem removes an item and invalidates from its month.
func (s *BudgetService) DeleteBudgetItem(ctx context.Context, id string) error {
	mk, err := s.storage.ItemMonth(ctx, id)
	if err != nil {
		return fmt.Errorf("delete budget item: %w", err)
	}
	if err := s.storage.DeleteItem(ctx, id); err != nil {
		return err
	}
	return s.invalidateAndPublish(ctx, mk, "item")
}

// PutSavingsGoal validates and stores a savings goal. The cascade starts
// at the goal's start month since every month in range is affected.
func (s *BudgetService) PutSavingsGoal(ctx context.Context, goal core.SavingsGoal) (core.SavingsGoal, error) {
	if err := goal.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	if err := s.checkAccount(ctx, goal.AccountID); err != nil {
		return core.SavingsGoal{}, err
	}
	saved, err := s.storage.PutGoal(ctx, goal)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("put savings goal: %w", err)
	}
	return saved, s.invalidateAndPublish(ctx, goal.StartMonth, "goal")
}

func (s *BudgetService) DeleteSavingsGoal(ctx context.Context, id string) error {
	goals, err := s.storage.Goals(ctx)
	if err != nil {
		return err
	}
	for _, g := range goals {
		if g.ID == id {
			if err := s.storage.DeleteGoal(ctx, id); err != nil {
				return err
			}
			return s.invalidateAndPublish(ctx, g.StartMonth, "goal")
		}
	}
	return fmt.Errorf("delete savings goal: %s not found", id)
}

// SetTransferSettings changes the daily/weekend transfer amounts. They
// affect every month, so the cascade starts at the earliest recorded one.
func (s *BudgetService) SetTransferSettings(ctx context.Context, daily, weekend core.Money) error {
	if daily.Ore < 0 || weekend.Ore < 0 {
		return core.ErrInvalidAmount
	}
	if err := s.storage.SetTransferSettings(ctx, daily, weekend); err != nil {
		return err
	}
	snap, err := s.storage.Snapshot(ctx)
	if err != nil {
		return err
	}
	earliest, ok := ledger.EarliestMonth(snap)
	if !ok {
		return nil
	}
	return s.invalidateAndPublish(ctx, earliest, "settings")
}

// ImportTransaction stores a bank transaction. Bank data is not a manual
// budget value, so it does not invalidate lock flags.
func (s *BudgetService) ImportTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	saved, err := s.storage.PutTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, err
	}
	// Dates from the 25th belong to the next month's budget period.
	s.publish(ctx, period.MonthFor(t.Date), "transaction")
	return saved, nil
}

// LockMonth marks a month's closing balances final. The chain rule
// applies: only the first month with data, or a month whose predecessor is
// locked, may be locked. Balances are recomputed and persisted first so
// the flag covers fresh figures.
func (s *BudgetService) LockMonth(ctx context.Context, mk core.MonthKey) error {
	if err := mk.Validate(); err != nil {
		return err
	}
	cal, err := NewSummaryService(s.storage).Calendar(ctx)
	if err != nil {
		return err
	}
	snap, err := s.storage.Snapshot(ctx)
	if err != nil {
		return err
	}

	balances := ledger.RecomputeAll(snap, cal)
	if err := s.storage.SaveBalances(ctx, mk, balances[mk]); err != nil {
		return fmt.Errorf("store balances before lock: %w", err)
	}

	snap.Balances = balances
	flags, err := ledger.Lock(snap, mk)
	if err != nil {
		return err
	}
	return s.storage.SaveFlags(ctx, flags)
}

// UnlockMonth clears a month's final flag and every later month's too.
func (s *BudgetService) UnlockMonth(ctx context.Context, mk core.MonthKey) error {
	if err := mk.Validate(); err != nil {
		return err
	}
	return s.invalidateAndPublish(ctx, mk, "unlock")
}

// DeleteMonth removes a month's data. Only the chronologically last
// recorded month may go: deleting an earlier one would leave a gap that
// later propagation silently treats as zero.
func (s *BudgetService) DeleteMonth(ctx context.Context, mk core.MonthKey) error {
	if err := mk.Validate(); err != nil {
		return err
	}
	snap, err := s.storage.Snapshot(ctx)
	if err != nil {
		return err
	}
	if !ledger.CanDeleteMonth(snap, mk) {
		return core.ErrMonthGap
	}
	if err := s.storage.DeleteMonth(ctx, mk); err != nil {
		return err
	}
	s.publish(ctx, mk, "delete")
	return nil
}

func (s *BudgetService) invalidateAndPublish(ctx context.Context, mk core.MonthKey, reason string) error {
	snap, err := s.storage.Snapshot(ctx)
	if err != nil {
		return err
	}
	flags := ledger.InvalidateFrom(snap, mk)
	if err := s.storage.SaveFlags(ctx, flags); err != nil {
		return fmt.Errorf("invalidate flags from %s: %w", mk, err)
	}
	s.publish(ctx, mk, reason)
	return nil
}

func (s *BudgetService) publish(ctx context.Context, mk core.MonthKey, reason string) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Change publisher not available, skipping event", "month", mk)
		return
	}
	if err := s.publisher.PublishMonthChanged(ctx, mk, reason); err != nil {
		// The local write succeeded; a broker hiccup must not fail it.
		slog.ErrorContext(ctx, "Failed to publish month change",
			"month", mk, "reason", reason, "error", err)
	}
}

func (s *BudgetService) checkAccount(ctx context.Context, accountID string) error {
	accounts, err := s.storage.Accounts(ctx)
	if err != nil {
		return err
	}
	for _, a := range accounts {
		if a.ID == accountID {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", core.ErrUnknownAccount, accountID)
}
