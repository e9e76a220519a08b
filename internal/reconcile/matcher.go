// Package reconcile matches bank transactions against budget categories,
// accounts and savings/income targets.
//
// Matching is pure and deterministic: the same transaction list and
// category graph always produce the same totals, and iteration order only
// affects the ordering of reported anomalies (insertion order of the source
// list). Transactions referencing unknown ids simply never match a known
// id, so they are excluded from totals; Anomalies surfaces them for
// data-integrity tooling.
package reconcile

import (
	"budgetkoll/internal/core"
	"budgetkoll/internal/period"
)

// Matcher reconciles transactions against a category graph and account set.
type Matcher struct {
	graph    core.CategoryGraph
	accounts map[string]bool
}

// NewMatcher builds a matcher over the supplied category graph and
// accounts.
func NewMatcher(graph core.CategoryGraph, accounts []core.Account) *Matcher {
	known := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		known[a.ID] = true
	}
	return &Matcher{graph: graph, accounts: known}
}

// isCost reports whether t counts toward spending: a real transaction or
// expense claim with a negative effective amount. Transfers and other types
// never count.
func isCost(t core.Transaction) bool {
	switch t.Type {
	case core.TxTransaction, core.TxExpenseClaim:
		return t.EffectiveAmount() < 0
	default:
		return false
	}
}

// ActualForCategory sums spending matched to a main category: transactions
// tagged with the category directly or with one of its subcategories. The
// total keeps the bank sign (spending is negative).
func (m *Matcher) ActualForCategory(categoryID string, txs []core.Transaction) core.ReconciledTotal {
	var sum int64
	for _, t := range txs {
		if !isCost(t) {
			continue
		}
		if t.AppCategoryID == categoryID || (t.AppSubCategoryID != "" && m.graph.SubBelongsTo(categoryID, t.AppSubCategoryID)) {
			sum += t.EffectiveAmount()
		}
	}
	return core.ReconciledTotal{Ore: sum, Convention: core.SignedOutflow}
}

// ActualForSubcategory sums spending for one subcategory, signed.
func (m *Matcher) ActualForSubcategory(subCategoryID string, txs []core.Transaction) core.ReconciledTotal {
	var sum int64
	for _, t := range txs {
		if isCost(t) && t.AppSubCategoryID == subCategoryID {
			sum += t.EffectiveAmount()
		}
	}
	return core.ReconciledTotal{Ore: sum, Convention: core.SignedOutflow}
}

// ActualForAccount sums the effective amounts of an account's transactions
// and expense claims, signed. Used for drill-down and closing-balance
// cross-checks.
func (m *Matcher) ActualForAccount(accountID string, txs []core.Transaction) core.ReconciledTotal {
	var sum int64
	for _, t := range txs {
		if t.AccountID != accountID {
			continue
		}
		switch t.Type {
		case core.TxTransaction, core.TxExpenseClaim:
			sum += t.EffectiveAmount()
		}
	}
	return core.ReconciledTotal{Ore: sum, Convention: core.SignedOutflow}
}

// ActualForSavingsTarget sums contributions carrying the given savings
// target id. Direction is not preserved: the total is a non-negative
// magnitude.
func (m *Matcher) ActualForSavingsTarget(targetID string, txs []core.Transaction) core.ReconciledTotal {
	var sum int64
	for _, t := range txs {
		if targetID != "" && t.SavingsTargetID == targetID {
			sum += abs(t.EffectiveAmount())
		}
	}
	return core.ReconciledTotal{Ore: sum, Convention: core.Magnitude}
}

// TotalSavings sums every savings contribution: transactions typed as
// savings or carrying any savings target id. Non-negative magnitude.
func (m *Matcher) TotalSavings(txs []core.Transaction) core.ReconciledTotal {
	var sum int64
	for _, t := range txs {
		if t.Type == core.TxSavings || t.SavingsTargetID != "" {
			sum += abs(t.EffectiveAmount())
		}
	}
	return core.ReconciledTotal{Ore: sum, Convention: core.Magnitude}
}

// ActualForIncomeTarget sums inflows carrying the given income target id,
// signed (income is positive).
func (m *Matcher) ActualForIncomeTarget(targetID string, txs []core.Transaction) core.ReconciledTotal {
	var sum int64
	for _, t := range txs {
		if targetID != "" && t.IncomeTargetID == targetID && t.EffectiveAmount() > 0 {
			sum += t.EffectiveAmount()
		}
	}
	return core.ReconciledTotal{Ore: sum, Convention: core.SignedOutflow}
}

// LatestBankBalance returns the bank-reported running balance of the most
// recent transaction for the account inside the period, or nil when no
// transaction in the period carried one. Ties on date are resolved by list
// order (later row wins).
func (m *Matcher) LatestBankBalance(accountID string, p period.Period, txs []core.Transaction) *core.Money {
	var best *core.Transaction
	for i := range txs {
		t := &txs[i]
		if t.AccountID != accountID || t.BankBalance == nil || !p.Contains(t.Date) {
			continue
		}
		if best == nil || !t.Date.Before(best.Date) {
			best = t
		}
	}
	if best == nil {
		return nil
	}
	b := *best.BankBalance
	return &b
}

// Anomalies scans a transaction list for references to categories,
// subcategories or accounts missing from the supplied graph. The offending
// rows are already excluded from totals; this reports them to the caller.
func (m *Matcher) Anomalies(txs []core.Transaction) []core.Anomaly {
	var out []core.Anomaly
	for _, t := range txs {
		if t.AppCategoryID != "" && !m.graph.HasCategory(t.AppCategoryID) {
			out = append(out, core.Anomaly{
				TransactionID: t.ID,
				Field:         "appCategoryId",
				Value:         t.AppCategoryID,
				Reason:        "unknown category",
			})
		}
		if t.AppSubCategoryID != "" && !m.graph.HasSubcategory(t.AppSubCategoryID) {
			out = append(out, core.Anomaly{
				TransactionID: t.ID,
				Field:         "appSubCategoryId",
				Value:         t.AppSubCategoryID,
				Reason:        "unknown subcategory",
			})
		}
		if t.AccountID != "" && !m.accounts[t.AccountID] {
			out = append(out, core.Anomaly{
				TransactionID: t.ID,
				Field:         "accountId",
				Value:         t.AccountID,
				Reason:        "unknown account",
			})
		}
	}
	return out
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
