package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"budgetkoll/internal/core"
	"budgetkoll/internal/storage"
)

type recordingPublisher struct {
	months []core.MonthKey
	err    error
}

func (p *recordingPublisher) PublishMonthChanged(_ context.Context, mk core.MonthKey, _ string) error {
	p.months = append(p.months, mk)
	return p.err
}

func testRepo(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "budget.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func addAccount(t *testing.T, repo *storage.SQLiteRepository, name string) core.Account {
	t.Helper()
	a, err := repo.PutAccount(context.Background(), core.Account{Name: name})
	if err != nil {
		t.Fatalf("PutAccount: %v", err)
	}
	return a
}

func monthlyCost(accountID, categoryID string, ore int64) core.BudgetItem {
	return core.BudgetItem{
		Kind:           core.ItemCost,
		MainCategoryID: categoryID,
		AccountID:      accountID,
		Amount:         core.Money{Ore: ore},
		FinancedFrom:   core.FinancedOneTime,
		TransferType:   core.TransferMonthly,
	}
}

func TestLockChainOrder(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	acc := addAccount(t, repo, "Lönekonto")
	svc := NewBudgetService(repo, nil)

	if _, err := repo.PutCategory(ctx, "food", "Mat"); err != nil {
		t.Fatalf("PutCategory: %v", err)
	}
	jul := core.MonthKey("2025-07")
	aug := core.MonthKey("2025-08")
	for _, mk := range []core.MonthKey{jul, aug} {
		if _, err := svc.PutBudgetItem(ctx, mk, monthlyCost(acc.ID, "food", 500000)); err != nil {
			t.Fatalf("PutBudgetItem %s: %v", mk, err)
		}
	}

	if err := svc.LockMonth(ctx, aug); !errors.Is(err, core.ErrNotLockable) {
		t.Fatalf("locking later month first: err = %v, want ErrNotLockable", err)
	}
	if err := svc.LockMonth(ctx, jul); err != nil {
		t.Fatalf("lock first month: %v", err)
	}
	if err := svc.LockMonth(ctx, aug); err != nil {
		t.Fatalf("lock second month: %v", err)
	}

	flags, err := repo.Flags(ctx)
	if err != nil {
		t.Fatalf("Flags: %v", err)
	}
	if !flags[jul] || !flags[aug] {
		t.Fatalf("flags = %v, want both months locked", flags)
	}
}

func TestMutationInvalidatesLaterMonths(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	acc := addAccount(t, repo, "Lönekonto")
	pub := &recordingPublisher{}
	svc := NewBudgetService(repo, pub)

	if _, err := repo.PutCategory(ctx, "food", "Mat"); err != nil {
		t.Fatalf("PutCategory: %v", err)
	}
	jul := core.MonthKey("2025-07")
	aug := core.MonthKey("2025-08")
	for _, mk := range []core.MonthKey{jul, aug} {
		if _, err := svc.PutBudgetItem(ctx, mk, monthlyCost(acc.ID, "food", 500000)); err != nil {
			t.Fatalf("PutBudgetItem %s: %v", mk, err)
		}
	}
	if err := svc.LockMonth(ctx, jul); err != nil {
		t.Fatalf("lock jul: %v", err)
	}
	if err := svc.LockMonth(ctx, aug); err != nil {
		t.Fatalf("lock aug: %v", err)
	}

	// Changing July's actual must clear both flags.
	value := int64(1234500)
	if err := svc.SetActualBalance(ctx, jul, acc.ID, &value); err != nil {
		t.Fatalf("SetActualBalance: %v", err)
	}
	flags, err := repo.Flags(ctx)
	if err != nil {
		t.Fatalf("Flags: %v", err)
	}
	if flags[jul] || flags[aug] {
		t.Fatalf("flags after mutation = %v, want all cleared", flags)
	}
	if len(pub.months) == 0 || pub.months[len(pub.months)-1] != jul {
		t.Errorf("published months = %v, want last event for %s", pub.months, jul)
	}
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	acc := addAccount(t, repo, "Lönekonto")
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewBudgetService(repo, pub)

	value := int64(100000)
	if err := svc.SetActualBalance(ctx, "2025-07", acc.ID, &value); err != nil {
		t.Fatalf("SetActualBalance with broken publisher: %v", err)
	}
}

func TestSetActualBalanceRejectsUnknownAccount(t *testing.T) {
	repo := testRepo(t)
	svc := NewBudgetService(repo, nil)

	value := int64(100000)
	err := svc.SetActualBalance(context.Background(), "2025-07", "no-such-account", &value)
	if !errors.Is(err, core.ErrUnknownAccount) {
		t.Fatalf("err = %v, want ErrUnknownAccount", err)
	}
}

func TestDeleteMonthOnlyLatest(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	acc := addAccount(t, repo, "Lönekonto")
	svc := NewBudgetService(repo, nil)

	if _, err := repo.PutCategory(ctx, "food", "Mat"); err != nil {
		t.Fatalf("PutCategory: %v", err)
	}
	jul := core.MonthKey("2025-07")
	aug := core.MonthKey("2025-08")
	for _, mk := range []core.MonthKey{jul, aug} {
		if _, err := svc.PutBudgetItem(ctx, mk, monthlyCost(acc.ID, "food", 500000)); err != nil {
			t.Fatalf("PutBudgetItem %s: %v", mk, err)
		}
	}

	if err := svc.DeleteMonth(ctx, jul); !errors.Is(err, core.ErrMonthGap) {
		t.Fatalf("deleting earlier month: err = %v, want ErrMonthGap", err)
	}
	if err := svc.DeleteMonth(ctx, aug); err != nil {
		t.Fatalf("deleting latest month: %v", err)
	}
	items, err := repo.ItemsForMonth(ctx, aug)
	if err != nil {
		t.Fatalf("ItemsForMonth: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("items after delete = %d, want 0", len(items))
	}
}

func TestMonthViewAssemblesSummary(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	acc := addAccount(t, repo, "Gemensamt konto")
	svc := NewBudgetService(repo, nil)

	if _, err := repo.PutCategory(ctx, "food", "Mat"); err != nil {
		t.Fatalf("PutCategory: %v", err)
	}
	jul := core.MonthKey("2025-07")
	if _, err := svc.PutBudgetItem(ctx, jul, monthlyCost(acc.ID, "food", 400000)); err != nil {
		t.Fatalf("PutBudgetItem: %v", err)
	}
	goal, err := svc.PutSavingsGoal(ctx, core.SavingsGoal{
		Name:         "Semester",
		AccountID:    acc.ID,
		TargetAmount: core.Money{Ore: 1200000},
		StartMonth:   "2025-06",
		EndMonth:     "2025-09",
	})
	if err != nil {
		t.Fatalf("PutSavingsGoal: %v", err)
	}

	// A grocery purchase and a goal deposit inside the July period.
	if _, err := svc.ImportTransaction(ctx, core.Transaction{
		AccountID:     acc.ID,
		Date:          time.Date(2025, time.July, 3, 0, 0, 0, 0, time.UTC),
		Amount:        core.Money{Ore: -25000},
		Type:          core.TxTransaction,
		AppCategoryID: "food",
	}); err != nil {
		t.Fatalf("ImportTransaction: %v", err)
	}
	if _, err := svc.ImportTransaction(ctx, core.Transaction{
		AccountID:       acc.ID,
		Date:            time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC),
		Amount:          core.Money{Ore: -30000},
		Type:            core.TxSavings,
		SavingsTargetID: goal.ID,
	}); err != nil {
		t.Fatalf("ImportTransaction: %v", err)
	}

	view, err := NewSummaryService(repo).MonthView(ctx, jul, time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("MonthView: %v", err)
	}

	if len(view.Summary.Accounts) != 1 {
		t.Fatalf("accounts = %d, want 1", len(view.Summary.Accounts))
	}
	if got := view.Summary.Accounts[0].EstimatedOpening; got != 0 {
		t.Errorf("opening = %d, want 0 for a first month", got)
	}
	// One-time cost: closing = opening - allocation.
	if got := view.Summary.Accounts[0].EstimatedClosing; got != -400000 {
		t.Errorf("closing = %d, want -400000", got)
	}

	if len(view.Summary.Categories) != 1 {
		t.Fatalf("categories = %d, want 1", len(view.Summary.Categories))
	}
	cat := view.Summary.Categories[0]
	if cat.Budgeted != 400000 {
		t.Errorf("budgeted = %d, want 400000", cat.Budgeted)
	}
	if cat.Actual.Ore != -25000 || cat.Actual.Convention != core.SignedOutflow {
		t.Errorf("category actual = %+v, want -25000 signed", cat.Actual)
	}

	if len(view.Summary.Savings) != 1 {
		t.Fatalf("savings = %d, want 1", len(view.Summary.Savings))
	}
	sav := view.Summary.Savings[0]
	if sav.Amortized != 300000 {
		t.Errorf("amortized = %d, want 300000", sav.Amortized)
	}
	if sav.Actual.Ore != 30000 || sav.Actual.Convention != core.Magnitude {
		t.Errorf("savings actual = %+v, want 30000 magnitude", sav.Actual)
	}

	if len(view.Summary.Anomalies) != 0 {
		t.Errorf("anomalies = %+v, want none", view.Summary.Anomalies)
	}
	if view.Budget.WeekdayCount == 0 {
		t.Error("daily budget not populated")
	}
}

func TestRecomputeAndStorePersistsEstimates(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	acc := addAccount(t, repo, "Lönekonto")
	svc := NewBudgetService(repo, nil)

	if _, err := repo.PutCategory(ctx, "food", "Mat"); err != nil {
		t.Fatalf("PutCategory: %v", err)
	}
	jul := core.MonthKey("2025-07")
	aug := core.MonthKey("2025-08")
	if _, err := svc.PutBudgetItem(ctx, jul, monthlyCost(acc.ID, "food", 200000)); err != nil {
		t.Fatalf("PutBudgetItem: %v", err)
	}
	if _, err := svc.PutBudgetItem(ctx, aug, monthlyCost(acc.ID, "food", 100000)); err != nil {
		t.Fatalf("PutBudgetItem: %v", err)
	}

	keys, err := NewSummaryService(repo).RecomputeAndStore(ctx)
	if err != nil {
		t.Fatalf("RecomputeAndStore: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("recomputed %v, want two months", keys)
	}

	balances, err := repo.Balances(ctx)
	if err != nil {
		t.Fatalf("Balances: %v", err)
	}
	if got := balances[aug][acc.ID].EstimatedOpening; got != -200000 {
		t.Errorf("august opening = %d, want july closing -200000", got)
	}
	if got := balances[aug][acc.ID].EstimatedClosing; got != -300000 {
		t.Errorf("august closing = %d, want -300000", got)
	}
}
