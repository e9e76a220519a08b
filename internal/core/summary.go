package core

const (
	// SignedOutflow totals keep the bank sign: spending stays negative.
	SignedOutflow SignConvention = "signed"
	// Magnitude totals are absolute values: savings contributions are
	// always non-negative regardless of transfer direction.
	Magnitude SignConvention = "magnitude"
)

type (
	// SignConvention tags a reconciled total with the sign rule it follows,
	// so callers never have to infer it from the call site.
	SignConvention string

	// ReconciledTotal is a matcher result in öre plus its sign convention.
	ReconciledTotal struct {
		Ore        int64
		Convention SignConvention
	}

	// AccountSummary is one account's ledger row for a month, with the
	// derived diagnostic diff (actual minus estimated closing, meaningful
	// only when the actual is set).
	AccountSummary struct {
		AccountID        string
		AccountName      string
		EstimatedOpening int64
		EstimatedClosing int64
		Actual           int64
		IsSet            bool
		Diff             int64
		// BankBalance is the latest bank-reported running balance inside
		// the period, when one exists.
		BankBalance *Money
	}

	// CategorySummary is budget-vs-actual for one main category.
	CategorySummary struct {
		CategoryID string
		Budgeted   int64
		Actual     ReconciledTotal
	}

	// SavingsSummary is one goal's amortized contribution and matched
	// deposits for a month.
	SavingsSummary struct {
		GoalID    string
		Amortized int64
		Actual    ReconciledTotal
	}

	// MonthSummary is the per-month result the UI layer consumes. All
	// figures are öre; display conversion is the caller's concern.
	MonthSummary struct {
		Month      MonthKey
		Locked     bool
		Accounts   []AccountSummary
		Categories []CategorySummary
		Savings    []SavingsSummary
		Anomalies  []Anomaly
	}

	// Anomaly reports a non-fatal data-integrity problem found while
	// reconciling, e.g. a transaction referencing an unknown category. The
	// offending row is excluded from totals but computation continues.
	Anomaly struct {
		TransactionID string
		Field         string
		Value         string
		Reason        string
	}
)
