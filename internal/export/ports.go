package export

import (
	"context"

	"budgetkoll/internal/core"
)

// Ports for outbound adapters.
type (
	// SummaryExporter writes a month's computed summary to an external
	// destination, overwriting any earlier export of the same month.
	SummaryExporter interface {
		ExportMonth(ctx context.Context, summary core.MonthSummary) error
	}
)
