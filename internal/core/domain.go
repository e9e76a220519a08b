package core

import (
	"errors"
	"strings"
	"time"
)

const (
	FinancedRecurring FinancedFrom = "recurring"
	FinancedOneTime   FinancedFrom = "one-time"

	TransferMonthly TransferType = "monthly"
	TransferDaily   TransferType = "daily"

	ItemCost    ItemKind = "cost"
	ItemSavings ItemKind = "savings"

	TxTransaction  TransactionType = "transaction"
	TxExpenseClaim TransactionType = "expense_claim"
	TxTransfer     TransactionType = "transfer"
	TxSavings      TransactionType = "savings"
	TxIncome       TransactionType = "income"
)

type (
	FinancedFrom    string
	TransferType    string
	ItemKind        string
	TransactionType string

	// Account identity is ID; Name is a display label that may collide
	// across renames.
	Account struct {
		ID   string
		Name string
	}

	// MonthAccountBalance is the per (month, account) ledger row. Actual is
	// the user-entered figure; when IsSet is false the estimated values
	// stand in wherever the actual would be used.
	MonthAccountBalance struct {
		Actual           int64
		IsSet            bool
		EstimatedOpening int64
		EstimatedClosing int64
	}

	// BudgetItem is a budgeted cost or savings post for a month.
	BudgetItem struct {
		ID             string
		Kind           ItemKind
		MainCategoryID string
		SubCategoryID  string
		AccountID      string
		Amount         Money
		FinancedFrom   FinancedFrom
		TransferType   TransferType
		// Daily-transfer items only.
		DailyAmount  Money
		TransferDays map[time.Weekday]bool
	}

	// SavingsGoal spreads TargetAmount over the inclusive month range
	// [StartMonth, EndMonth].
	SavingsGoal struct {
		ID               string
		Name             string
		AccountID        string
		TargetAmount     Money
		StartMonth       MonthKey
		EndMonth         MonthKey
		LinkedCategoryID string
	}

	// Transaction is a bank-reported row. Amount keeps the bank's sign:
	// negative is an outflow, positive an inflow. CorrectedAmount, when set
	// and different from Amount, is authoritative for all reconciliation.
	Transaction struct {
		ID               string
		AccountID        string
		Date             time.Time
		Amount           Money
		CorrectedAmount  *Money
		Type             TransactionType
		AppCategoryID    string
		AppSubCategoryID string
		SavingsTargetID  string
		IncomeTargetID   string
		// BankBalance is the running balance the bank reported after this
		// transaction, when the import carried one.
		BankBalance *Money
	}

	// Category is a main budget category with its subcategories.
	Category struct {
		ID     string
		Name   string
		SubIDs []string
	}

	// CategoryGraph is the main/sub category structure supplied by the
	// persistence layer. Ids are opaque stable identifiers.
	CategoryGraph struct {
		Categories []Category
	}
)

var (
	ErrInvalidMonthKey         = errors.New("invalid month key")
	ErrInvalidAmount           = errors.New("invalid amount")
	ErrDailyTransferIncomplete = errors.New("daily transfer requires daily amount and transfer days")
	ErrGoalRange               = errors.New("savings goal start month after end month")
	ErrMonthGap                = errors.New("deletion would leave a month gap")
	ErrUnknownAccount          = errors.New("unknown account")
	ErrNotLockable             = errors.New("previous month is not locked")
	ErrEmptyName               = errors.New("empty name")
)

// EffectiveAmount returns the authoritative amount in öre: the corrected
// amount when present and different from the bank amount, else the bank
// amount.
func (t Transaction) EffectiveAmount() int64 {
	if t.CorrectedAmount != nil && t.CorrectedAmount.Ore != t.Amount.Ore {
		return t.CorrectedAmount.Ore
	}
	return t.Amount.Ore
}

// Validate checks the item invariants. A daily-transfer item must carry
// both a daily amount and at least one transfer day.
func (i BudgetItem) Validate() error {
	if strings.TrimSpace(i.AccountID) == "" {
		return ErrUnknownAccount
	}
	switch i.Kind {
	case ItemCost, ItemSavings:
	default:
		return errors.New("invalid item kind")
	}
	switch i.FinancedFrom {
	case FinancedRecurring, FinancedOneTime:
	default:
		return errors.New("invalid financing type")
	}
	switch i.TransferType {
	case TransferMonthly:
		if err := i.Amount.Validate(); err != nil {
			return err
		}
	case TransferDaily:
		if i.DailyAmount.Ore <= 0 || len(i.TransferDays) == 0 {
			return ErrDailyTransferIncomplete
		}
	default:
		return errors.New("invalid transfer type")
	}
	return nil
}

// Validate checks the goal invariants.
func (g SavingsGoal) Validate() error {
	if len(strings.TrimSpace(g.Name)) == 0 {
		return ErrEmptyName
	}
	if err := g.StartMonth.Validate(); err != nil {
		return err
	}
	if err := g.EndMonth.Validate(); err != nil {
		return err
	}
	if g.EndMonth.Before(g.StartMonth) {
		return ErrGoalRange
	}
	return g.TargetAmount.Validate()
}

// SubBelongsTo reports whether subID is a subcategory of categoryID.
func (g CategoryGraph) SubBelongsTo(categoryID, subID string) bool {
	for _, c := range g.Categories {
		if c.ID != categoryID {
			continue
		}
		for _, s := range c.SubIDs {
			if s == subID {
				return true
			}
		}
	}
	return false
}

// HasCategory reports whether id is a known main category.
func (g CategoryGraph) HasCategory(id string) bool {
	for _, c := range g.Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// HasSubcategory reports whether id is a known subcategory of any main
// category.
func (g CategoryGraph) HasSubcategory(id string) bool {
	for _, c := range g.Categories {
		for _, s := range c.SubIDs {
			if s == id {
				return true
			}
		}
	}
	return false
}
