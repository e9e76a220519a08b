// Package storage is the SQLite system of record for the budget engine.
// It supplies immutable snapshots to the engine and persists the derived
// balances the engine hands back.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"budgetkoll/internal/core"
	"budgetkoll/internal/holiday"
	"budgetkoll/internal/ledger"
)

const dayFormat = "2006-01-02"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Accounts returns every account ordered by name.
func (r *SQLiteRepository) Accounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM accounts ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		var a core.Account
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// PutAccount inserts or renames an account. A blank id gets a fresh uuid;
// the id itself never changes across renames.
func (r *SQLiteRepository) PutAccount(ctx context.Context, a core.Account) (core.Account, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, name) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name`, a.ID, a.Name)
	if err != nil {
		return core.Account{}, fmt.Errorf("put account: %w", err)
	}
	return a, nil
}

// DeleteAccount removes an account and its per-month balance rows. Other
// accounts' chains are untouched.
func (r *SQLiteRepository) DeleteAccount(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete account: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM month_balances WHERE account_id = ?`, id); err != nil {
		return fmt.Errorf("delete account balances: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return tx.Commit()
}

// CategoryGraph loads the main/sub category structure.
func (r *SQLiteRepository) CategoryGraph(ctx context.Context) (core.CategoryGraph, error) {
	var g core.CategoryGraph

	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name, id`)
	if err != nil {
		return g, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	index := map[string]int{}
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return g, fmt.Errorf("scan category: %w", err)
		}
		index[c.ID] = len(g.Categories)
		g.Categories = append(g.Categories, c)
	}
	if err := rows.Err(); err != nil {
		return g, err
	}

	subRows, err := r.db.QueryContext(ctx, `SELECT id, category_id FROM subcategories ORDER BY name, id`)
	if err != nil {
		return g, fmt.Errorf("query subcategories: %w", err)
	}
	defer subRows.Close()

	for subRows.Next() {
		var id, catID string
		if err := subRows.Scan(&id, &catID); err != nil {
			return g, fmt.Errorf("scan subcategory: %w", err)
		}
		if i, ok := index[catID]; ok {
			g.Categories[i].SubIDs = append(g.Categories[i].SubIDs, id)
		}
	}
	return g, subRows.Err()
}

// PutCategory inserts or renames a main category.
func (r *SQLiteRepository) PutCategory(ctx context.Context, id, name string) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, name) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name`, id, name)
	if err != nil {
		return "", fmt.Errorf("put category: %w", err)
	}
	return id, nil
}

// PutSubcategory inserts or renames a subcategory under a main category.
func (r *SQLiteRepository) PutSubcategory(ctx context.Context, id, categoryID, name string) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO subcategories (id, category_id, name) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET category_id = excluded.category_id, name = excluded.name`,
		id, categoryID, name)
	if err != nil {
		return "", fmt.Errorf("put subcategory: %w", err)
	}
	return id, nil
}

// ItemsForMonth returns a month's budget items in insertion order.
func (r *SQLiteRepository) ItemsForMonth(ctx context.Context, mk core.MonthKey) ([]core.BudgetItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, main_category_id, sub_category_id, account_id,
		       amount_ore, financed_from, transfer_type, daily_amount_ore, transfer_days
		FROM budget_items WHERE month = ? ORDER BY rowid`, string(mk))
	if err != nil {
		return nil, fmt.Errorf("query budget items: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// AllItems returns every month's budget items keyed by month.
func (r *SQLiteRepository) AllItems(ctx context.Context) (map[core.MonthKey][]core.BudgetItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT month, id, kind, main_category_id, sub_category_id, account_id,
		       amount_ore, financed_from, transfer_type, daily_amount_ore, transfer_days
		FROM budget_items ORDER BY month, rowid`)
	if err != nil {
		return nil, fmt.Errorf("query all budget items: %w", err)
	}
	defer rows.Close()

	out := map[core.MonthKey][]core.BudgetItem{}
	for rows.Next() {
		var month string
		var it core.BudgetItem
		var days string
		if err := rows.Scan(&month, &it.ID, &it.Kind, &it.MainCategoryID, &it.SubCategoryID,
			&it.AccountID, &it.Amount.Ore, &it.FinancedFrom, &it.TransferType,
			&it.DailyAmount.Ore, &days); err != nil {
			return nil, fmt.Errorf("scan budget item: %w", err)
		}
		it.TransferDays = decodeTransferDays(days)
		mk := core.MonthKey(month)
		out[mk] = append(out[mk], it)
	}
	return out, rows.Err()
}

// PutItem inserts or replaces a budget item for a month.
func (r *SQLiteRepository) PutItem(ctx context.Context, mk core.MonthKey, it core.BudgetItem) (core.BudgetItem, error) {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO budget_items
			(id, month, kind, main_category_id, sub_category_id, account_id,
			 amount_ore, financed_from, transfer_type, daily_amount_ore, transfer_days)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			month = excluded.month,
			kind = excluded.kind,
			main_category_id = excluded.main_category_id,
			sub_category_id = excluded.sub_category_id,
			account_id = excluded.account_id,
			amount_ore = excluded.amount_ore,
			financed_from = excluded.financed_from,
			transfer_type = excluded.transfer_type,
			daily_amount_ore = excluded.daily_amount_ore,
			transfer_days = excluded.transfer_days`,
		it.ID, string(mk), string(it.Kind), it.MainCategoryID, it.SubCategoryID, it.AccountID,
		it.Amount.Ore, string(it.FinancedFrom), string(it.TransferType),
		it.DailyAmount.Ore, encodeTransferDays(it.TransferDays))
	if err != nil {
		return core.BudgetItem{}, fmt.Errorf("put budget item: %w", err)
	}
	return it, nil
}

// ItemMonth returns the month an item belongs to.
func (r *SQLiteRepository) ItemMonth(ctx context.Context, id string) (core.MonthKey, error) {
	var month string
	err := r.db.QueryRowContext(ctx, `SELECT month FROM budget_items WHERE id = ?`, id).Scan(&month)
	if err != nil {
		return "", fmt.Errorf("find budget item month: %w", err)
	}
	return core.MonthKey(month), nil
}

func (r *SQLiteRepository) DeleteItem(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM budget_items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete budget item: %w", err)
	}
	return nil
}

// Goals returns every savings goal ordered by start month.
func (r *SQLiteRepository) Goals(ctx context.Context) ([]core.SavingsGoal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, account_id, target_ore, start_month, end_month, linked_category_id
		FROM savings_goals ORDER BY start_month, rowid`)
	if err != nil {
		return nil, fmt.Errorf("query savings goals: %w", err)
	}
	defer rows.Close()

	var out []core.SavingsGoal
	for rows.Next() {
		var g core.SavingsGoal
		var start, end string
		if err := rows.Scan(&g.ID, &g.Name, &g.AccountID, &g.TargetAmount.Ore, &start, &end, &g.LinkedCategoryID); err != nil {
			return nil, fmt.Errorf("scan savings goal: %w", err)
		}
		g.StartMonth, g.EndMonth = core.MonthKey(start), core.MonthKey(end)
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) PutGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO savings_goals (id, name, account_id, target_ore, start_month, end_month, linked_category_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			account_id = excluded.account_id,
			target_ore = excluded.target_ore,
			start_month = excluded.start_month,
			end_month = excluded.end_month,
			linked_category_id = excluded.linked_category_id`,
		g.ID, g.Name, g.AccountID, g.TargetAmount.Ore, string(g.StartMonth), string(g.EndMonth), g.LinkedCategoryID)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("put savings goal: %w", err)
	}
	return g, nil
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM savings_goals WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete savings goal: %w", err)
	}
	return nil
}

// SetActualBalance stores or clears the user-entered balance for a month
// and account. A nil value clears it back to "not filled in". The row is
// created lazily the first time the month is touched.
func (r *SQLiteRepository) SetActualBalance(ctx context.Context, mk core.MonthKey, accountID string, value *int64) error {
	actual := int64(0)
	isSet := 0
	if value != nil {
		actual = *value
		isSet = 1
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO month_balances (month, account_id, actual_ore, is_set)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(month, account_id) DO UPDATE SET
			actual_ore = excluded.actual_ore,
			is_set = excluded.is_set`,
		string(mk), accountID, actual, isSet)
	if err != nil {
		return fmt.Errorf("set actual balance: %w", err)
	}
	return nil
}

// SaveBalances persists engine-derived estimates for one month without
// touching the stored actual values.
func (r *SQLiteRepository) SaveBalances(ctx context.Context, mk core.MonthKey, rows map[string]core.MonthAccountBalance) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save balances: %w", err)
	}
	defer tx.Rollback()

	for accountID, row := range rows {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO month_balances (month, account_id, actual_ore, is_set, est_opening_ore, est_closing_ore)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(month, account_id) DO UPDATE SET
				est_opening_ore = excluded.est_opening_ore,
				est_closing_ore = excluded.est_closing_ore`,
			string(mk), accountID, row.Actual, boolToInt(row.IsSet), row.EstimatedOpening, row.EstimatedClosing)
		if err != nil {
			return fmt.Errorf("save balance %s/%s: %w", mk, accountID, err)
		}
	}
	return tx.Commit()
}

// Balances loads every stored balance row keyed by month and account.
func (r *SQLiteRepository) Balances(ctx context.Context) (map[core.MonthKey]map[string]core.MonthAccountBalance, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT month, account_id, actual_ore, is_set, est_opening_ore, est_closing_ore
		FROM month_balances`)
	if err != nil {
		return nil, fmt.Errorf("query balances: %w", err)
	}
	defer rows.Close()

	out := map[core.MonthKey]map[string]core.MonthAccountBalance{}
	for rows.Next() {
		var month, accountID string
		var row core.MonthAccountBalance
		var isSet int
		if err := rows.Scan(&month, &accountID, &row.Actual, &isSet, &row.EstimatedOpening, &row.EstimatedClosing); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		row.IsSet = isSet != 0
		mk := core.MonthKey(month)
		if out[mk] == nil {
			out[mk] = map[string]core.MonthAccountBalance{}
		}
		out[mk][accountID] = row
	}
	return out, rows.Err()
}

// Flags loads the per-month final flags.
func (r *SQLiteRepository) Flags(ctx context.Context) (map[core.MonthKey]bool, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT month, locked FROM month_flags`)
	if err != nil {
		return nil, fmt.Errorf("query month flags: %w", err)
	}
	defer rows.Close()

	out := map[core.MonthKey]bool{}
	for rows.Next() {
		var month string
		var locked int
		if err := rows.Scan(&month, &locked); err != nil {
			return nil, fmt.Errorf("scan month flag: %w", err)
		}
		out[core.MonthKey(month)] = locked != 0
	}
	return out, rows.Err()
}

// SaveFlags replaces the stored flag set.
func (r *SQLiteRepository) SaveFlags(ctx context.Context, flags map[core.MonthKey]bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save flags: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM month_flags`); err != nil {
		return fmt.Errorf("clear month flags: %w", err)
	}
	for mk, locked := range flags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO month_flags (month, locked) VALUES (?, ?)`,
			string(mk), boolToInt(locked)); err != nil {
			return fmt.Errorf("save month flag %s: %w", mk, err)
		}
	}
	return tx.Commit()
}

// PutTransaction inserts or replaces an imported bank transaction.
func (r *SQLiteRepository) PutTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	var corrected, bankBalance any
	if t.CorrectedAmount != nil {
		corrected = t.CorrectedAmount.Ore
	}
	if t.BankBalance != nil {
		bankBalance = t.BankBalance.Ore
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO bank_transactions
			(id, account_id, tx_date, amount_ore, corrected_ore, tx_type,
			 app_category_id, app_sub_category_id, savings_target_id, income_target_id, bank_balance_ore)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			account_id = excluded.account_id,
			tx_date = excluded.tx_date,
			amount_ore = excluded.amount_ore,
			corrected_ore = excluded.corrected_ore,
			tx_type = excluded.tx_type,
			app_category_id = excluded.app_category_id,
			app_sub_category_id = excluded.app_sub_category_id,
			savings_target_id = excluded.savings_target_id,
			income_target_id = excluded.income_target_id,
			bank_balance_ore = excluded.bank_balance_ore`,
		t.ID, t.AccountID, t.Date.Format(dayFormat), t.Amount.Ore, corrected, string(t.Type),
		t.AppCategoryID, t.AppSubCategoryID, t.SavingsTargetID, t.IncomeTargetID, bankBalance)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("put transaction: %w", err)
	}
	return t, nil
}

// TransactionsInRange returns transactions dated in [start, end] inclusive,
// in insertion order per date (the tie-break display ordering).
func (r *SQLiteRepository) TransactionsInRange(ctx context.Context, start, end time.Time) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, account_id, tx_date, amount_ore, corrected_ore, tx_type,
		       app_category_id, app_sub_category_id, savings_target_id, income_target_id, bank_balance_ore
		FROM bank_transactions
		WHERE tx_date >= ? AND tx_date <= ?
		ORDER BY tx_date, rowid`,
		start.Format(dayFormat), end.Format(dayFormat))
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var t core.Transaction
		var day string
		var corrected, bankBalance sql.NullInt64
		if err := rows.Scan(&t.ID, &t.AccountID, &day, &t.Amount.Ore, &corrected, &t.Type,
			&t.AppCategoryID, &t.AppSubCategoryID, &t.SavingsTargetID, &t.IncomeTargetID, &bankBalance); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Date, err = time.Parse(dayFormat, day)
		if err != nil {
			return nil, fmt.Errorf("parse transaction date %q: %w", day, err)
		}
		if corrected.Valid {
			t.CorrectedAmount = &core.Money{Ore: corrected.Int64}
		}
		if bankBalance.Valid {
			t.BankBalance = &core.Money{Ore: bankBalance.Int64}
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// TransferSettings returns the configured daily and weekend (Friday)
// transfer amounts.
func (r *SQLiteRepository) TransferSettings(ctx context.Context) (daily, weekend core.Money, err error) {
	err = r.db.QueryRowContext(ctx,
		`SELECT daily_transfer_ore, weekend_transfer_ore FROM transfer_settings WHERE id = 1`).
		Scan(&daily.Ore, &weekend.Ore)
	if err != nil {
		return core.Money{}, core.Money{}, fmt.Errorf("query transfer settings: %w", err)
	}
	return daily, weekend, nil
}

func (r *SQLiteRepository) SetTransferSettings(ctx context.Context, daily, weekend core.Money) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transfer_settings SET daily_transfer_ore = ?, weekend_transfer_ore = ? WHERE id = 1`,
		daily.Ore, weekend.Ore)
	if err != nil {
		return fmt.Errorf("set transfer settings: %w", err)
	}
	return nil
}

// CustomHolidays returns the user-defined holidays ordered by date.
func (r *SQLiteRepository) CustomHolidays(ctx context.Context) ([]holiday.Holiday, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT holiday_date, name FROM custom_holidays ORDER BY holiday_date`)
	if err != nil {
		return nil, fmt.Errorf("query custom holidays: %w", err)
	}
	defer rows.Close()

	var out []holiday.Holiday
	for rows.Next() {
		var day, name string
		if err := rows.Scan(&day, &name); err != nil {
			return nil, fmt.Errorf("scan custom holiday: %w", err)
		}
		d, err := time.Parse(dayFormat, day)
		if err != nil {
			return nil, fmt.Errorf("parse custom holiday date %q: %w", day, err)
		}
		out = append(out, holiday.Holiday{Date: d, Name: name})
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) PutCustomHoliday(ctx context.Context, h holiday.Holiday) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO custom_holidays (holiday_date, name) VALUES (?, ?)
		ON CONFLICT(holiday_date) DO UPDATE SET name = excluded.name`,
		h.Date.Format(dayFormat), h.Name)
	if err != nil {
		return fmt.Errorf("put custom holiday: %w", err)
	}
	return nil
}

// DeleteMonth removes a month's items, balances and flag in one
// transaction. Gap checking is the service layer's responsibility.
func (r *SQLiteRepository) DeleteMonth(ctx context.Context, mk core.MonthKey) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete month: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM budget_items WHERE month = ?`,
		`DELETE FROM month_balances WHERE month = ?`,
		`DELETE FROM month_flags WHERE month = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, string(mk)); err != nil {
			return fmt.Errorf("delete month %s: %w", mk, err)
		}
	}
	return tx.Commit()
}

// Snapshot assembles the full ledger snapshot the engine computes over.
func (r *SQLiteRepository) Snapshot(ctx context.Context) (ledger.Snapshot, error) {
	var snap ledger.Snapshot
	var err error

	if snap.Accounts, err = r.Accounts(ctx); err != nil {
		return snap, err
	}
	if snap.Balances, err = r.Balances(ctx); err != nil {
		return snap, err
	}
	if snap.Flags, err = r.Flags(ctx); err != nil {
		return snap, err
	}
	if snap.Items, err = r.AllItems(ctx); err != nil {
		return snap, err
	}
	return snap, nil
}

func scanItems(rows *sql.Rows) ([]core.BudgetItem, error) {
	var out []core.BudgetItem
	for rows.Next() {
		var it core.BudgetItem
		var days string
		if err := rows.Scan(&it.ID, &it.Kind, &it.MainCategoryID, &it.SubCategoryID,
			&it.AccountID, &it.Amount.Ore, &it.FinancedFrom, &it.TransferType,
			&it.DailyAmount.Ore, &days); err != nil {
			return nil, fmt.Errorf("scan budget item: %w", err)
		}
		it.TransferDays = decodeTransferDays(days)
		out = append(out, it)
	}
	return out, rows.Err()
}

// encodeTransferDays stores weekday numbers as a sorted comma list, e.g.
// "1,3,5".
func encodeTransferDays(days map[time.Weekday]bool) string {
	if len(days) == 0 {
		return ""
	}
	nums := make([]int, 0, len(days))
	for d, on := range days {
		if on {
			nums = append(nums, int(d))
		}
	}
	sort.Ints(nums)
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func decodeTransferDays(s string) map[time.Weekday]bool {
	if s == "" {
		return nil
	}
	out := map[time.Weekday]bool{}
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 6 {
			continue
		}
		out[time.Weekday(n)] = true
	}
	return out
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
