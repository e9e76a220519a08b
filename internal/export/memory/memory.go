package memory

import (
	"context"
	"sync"

	"budgetkoll/internal/core"
)

// Store keeps exported summaries in memory, keyed by month. The worker
// tests use it in place of the Sheets client.
type Store struct {
	mu     sync.Mutex
	months map[core.MonthKey]core.MonthSummary
}

func New() *Store {
	return &Store{months: make(map[core.MonthKey]core.MonthSummary)}
}

// ExportMonth stores the summary, replacing any earlier export of the
// same month.
func (s *Store) ExportMonth(_ context.Context, summary core.MonthSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.months[summary.Month] = summary
	return nil
}

// Exported returns the stored summary for a month, if any.
func (s *Store) Exported(mk core.MonthKey) (core.MonthSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum, ok := s.months[mk]
	return sum, ok
}

// Count returns how many months have been exported.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.months)
}
