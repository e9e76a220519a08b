// Package worker consumes month-change events, recomputes the ledger, and
// pushes fresh summaries to the export destination.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"budgetkoll/internal/amqp"
	"budgetkoll/internal/core"
	"budgetkoll/internal/export"
	"budgetkoll/internal/services"
)

// RecomputeWorker reacts to month changes. A single event triggers a full
// ascending recompute: balance propagation makes every month after the
// changed one stale, so partial recomputes would leave wrong estimates
// behind.
type RecomputeWorker struct {
	summaries *services.SummaryService
	exporter  export.SummaryExporter
	now       func() time.Time
}

func NewRecomputeWorker(summaries *services.SummaryService, exporter export.SummaryExporter) *RecomputeWorker {
	return &RecomputeWorker{summaries: summaries, exporter: exporter, now: time.Now}
}

// HandleMonthChanged processes a single month-change event: recompute all
// months, then export the changed month and every later one. Export
// failures are returned so the message is redelivered.
func (w *RecomputeWorker) HandleMonthChanged(ctx context.Context, msg *amqp.MonthChangedMessage) error {
	slog.InfoContext(ctx, "Processing month change",
		"month", msg.Month,
		"reason", msg.Reason)

	keys, err := w.summaries.RecomputeAndStore(ctx)
	if err != nil {
		return fmt.Errorf("recompute ledger: %w", err)
	}

	if w.exporter == nil {
		slog.WarnContext(ctx, "No exporter configured, skipping export", "month", msg.Month)
		return nil
	}

	for _, mk := range keys {
		if mk.Before(msg.Month) {
			continue
		}
		if err := w.exportMonth(ctx, mk); err != nil {
			return err
		}
	}
	return nil
}

// StartupRecompute refreshes every stored month and re-exports all of
// them. Run once at worker start to recover from missed events or
// downtime.
func (w *RecomputeWorker) StartupRecompute(ctx context.Context) error {
	keys, err := w.summaries.RecomputeAndStore(ctx)
	if err != nil {
		return fmt.Errorf("startup recompute: %w", err)
	}
	if len(keys) == 0 {
		slog.InfoContext(ctx, "No recorded months found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Recomputed months on startup", "count", len(keys))

	if w.exporter == nil {
		return nil
	}

	exported := 0
	errorCount := 0
	for _, mk := range keys {
		if err := w.exportMonth(ctx, mk); err != nil {
			slog.ErrorContext(ctx, "Failed to export month during startup",
				"month", mk, "error", err)
			errorCount++
			continue
		}
		exported++
	}

	slog.InfoContext(ctx, "Startup export completed",
		"total", len(keys),
		"exported", exported,
		"errors", errorCount)
	return nil
}

func (w *RecomputeWorker) exportMonth(ctx context.Context, mk core.MonthKey) error {
	view, err := w.summaries.MonthView(ctx, mk, w.now())
	if err != nil {
		return fmt.Errorf("assemble summary for %s: %w", mk, err)
	}
	if err := w.exporter.ExportMonth(ctx, view.Summary); err != nil {
		return fmt.Errorf("export %s: %w", mk, err)
	}
	slog.InfoContext(ctx, "Exported month summary",
		"month", mk,
		"accounts", len(view.Summary.Accounts))
	return nil
}
