// Package ledger propagates account balances across budget months.
//
// Every function is pure: it takes a snapshot of the recorded months and
// returns new derived values without mutating its input. Because a month's
// opening balance depends on the previous month, batch recomputation must
// proceed in ascending month-key order; RecomputeAll does exactly that.
package ledger

import (
	"sort"

	"budgetkoll/internal/core"
	"budgetkoll/internal/holiday"
	"budgetkoll/internal/period"
)

// Snapshot is the in-memory state the ledger computes over. Maps are keyed
// by month key; account maps by account id.
type Snapshot struct {
	Accounts []core.Account
	Balances map[core.MonthKey]map[string]core.MonthAccountBalance
	// Flags marks months whose closing balances are considered final.
	Flags map[core.MonthKey]bool
	Items map[core.MonthKey][]core.BudgetItem
}

// MonthKeys returns every month with recorded data, ascending.
func MonthKeys(snap Snapshot) []core.MonthKey {
	seen := make(map[core.MonthKey]bool)
	for k := range snap.Balances {
		seen[k] = true
	}
	for k := range snap.Flags {
		seen[k] = true
	}
	for k := range snap.Items {
		seen[k] = true
	}
	keys := make([]core.MonthKey, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
	return keys
}

// EarliestMonth returns the chronologically first month with any data.
func EarliestMonth(snap Snapshot) (core.MonthKey, bool) {
	keys := MonthKeys(snap)
	if len(keys) == 0 {
		return "", false
	}
	return keys[0], true
}

// EstimatedOpening resolves an account's opening balance for a month: the
// previous month's actual when one was explicitly set, else its estimated
// closing, walking back through months without data and terminating at 0.
// An estimate many months removed from any actual figure is still an
// estimate, never an error.
func EstimatedOpening(snap Snapshot, mk core.MonthKey, accountID string) int64 {
	earliest, ok := EarliestMonth(snap)
	if !ok {
		return 0
	}
	for k := mk.Prev(); !k.Before(earliest); k = k.Prev() {
		row, ok := snap.Balances[k][accountID]
		if !ok {
			continue
		}
		if row.IsSet {
			return row.Actual
		}
		return row.EstimatedClosing
	}
	return 0
}

// EffectiveMonthlyAmount derives an item's monthly allocation in öre. A
// monthly item contributes its amount directly; a daily item contributes
// its daily amount for every non-holiday day in the period whose weekday is
// among its transfer days.
func EffectiveMonthlyAmount(item core.BudgetItem, p period.Period, cal *holiday.Calendar) int64 {
	if item.TransferType == core.TransferMonthly {
		return item.Amount.Ore
	}
	var total int64
	for d := p.Start; !d.After(p.End); d = d.AddDate(0, 0, 1) {
		if !item.TransferDays[d.Weekday()] {
			continue
		}
		if cal != nil && cal.IsHoliday(d) {
			continue
		}
		total += item.DailyAmount.Ore
	}
	return total
}

// ComputeClosing derives an account's closing balance for a month:
//
//	closing = opening + savings deposits + recurring cost allocations
//	        - all cost allocations
//
// Recurring cost allocations are money deposited into the account as a
// budgeted transfer, so adding them back makes recurring costs
// balance-neutral; only one-time costs reduce the balance, and savings
// deposits always increase it.
func ComputeClosing(opening int64, accountID string, items []core.BudgetItem, p period.Period, cal *holiday.Calendar) int64 {
	closing := opening
	for _, it := range items {
		if it.AccountID != accountID {
			continue
		}
		amount := EffectiveMonthlyAmount(it, p, cal)
		switch it.Kind {
		case core.ItemSavings:
			closing += amount
		case core.ItemCost:
			if it.FinancedFrom == core.FinancedRecurring {
				closing += amount
			}
			closing -= amount
		}
	}
	return closing
}

// Recompute derives fresh balance rows for one month, per account. Actual
// values and their set flags are carried over untouched; only the estimates
// change. Accounts are independent: one account's row never affects
// another's.
func Recompute(snap Snapshot, mk core.MonthKey, cal *holiday.Calendar) map[string]core.MonthAccountBalance {
	p := period.ForMonth(mk)
	items := snap.Items[mk]
	rows := make(map[string]core.MonthAccountBalance, len(snap.Accounts))
	for _, acc := range snap.Accounts {
		row := snap.Balances[mk][acc.ID]
		row.EstimatedOpening = EstimatedOpening(snap, mk, acc.ID)
		row.EstimatedClosing = ComputeClosing(row.EstimatedOpening, acc.ID, items, p, cal)
		rows[acc.ID] = row
	}
	return rows
}

// RecomputeAll recomputes every recorded month in ascending order, so each
// month sees the previous month's fresh estimates. Returns a new balance
// map; the input snapshot is untouched.
func RecomputeAll(snap Snapshot, cal *holiday.Calendar) map[core.MonthKey]map[string]core.MonthAccountBalance {
	work := snap
	work.Balances = make(map[core.MonthKey]map[string]core.MonthAccountBalance, len(snap.Balances))
	for k, rows := range snap.Balances {
		copied := make(map[string]core.MonthAccountBalance, len(rows))
		for id, row := range rows {
			copied[id] = row
		}
		work.Balances[k] = copied
	}
	for _, mk := range MonthKeys(work) {
		work.Balances[mk] = Recompute(work, mk, cal)
	}
	return work.Balances
}

// CanLock reports whether a month's balances may be marked final: the month
// must be the chronologically first month with data, or the immediately
// preceding month must already be locked.
func CanLock(snap Snapshot, mk core.MonthKey) bool {
	earliest, ok := EarliestMonth(snap)
	if !ok {
		return false
	}
	if mk == earliest {
		return true
	}
	return snap.Flags[mk.Prev()]
}

// Lock returns a new flag map with mk marked final, or ErrNotLockable when
// the chain rule forbids it.
func Lock(snap Snapshot, mk core.MonthKey) (map[core.MonthKey]bool, error) {
	if !CanLock(snap, mk) {
		return nil, core.ErrNotLockable
	}
	flags := copyFlags(snap.Flags)
	flags[mk] = true
	return flags, nil
}

// InvalidateFrom returns a new flag map with mk and every chronologically
// later month cleared. Invoked whenever a manual value affecting mk
// changes: once upstream data changes, all downstream finality is invalid.
// Idempotent: re-running on already-cleared flags changes nothing.
func InvalidateFrom(snap Snapshot, mk core.MonthKey) map[core.MonthKey]bool {
	flags := copyFlags(snap.Flags)
	for k := range flags {
		if !k.Before(mk) {
			flags[k] = false
		}
	}
	return flags
}

// CanDeleteMonth reports whether removing mk leaves no chronological gap:
// only the latest recorded month (or an unrecorded one) may go. A gap
// would make a later month's propagation silently treat the hole as zero.
func CanDeleteMonth(snap Snapshot, mk core.MonthKey) bool {
	for _, k := range MonthKeys(snap) {
		if mk.Before(k) {
			return false
		}
	}
	return true
}

func copyFlags(in map[core.MonthKey]bool) map[core.MonthKey]bool {
	out := make(map[core.MonthKey]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
