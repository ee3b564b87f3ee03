package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.HistoryStore = (*HistoryStore)(nil)

// HistoryStore is an in-memory implementation of driven.HistoryStore.
type HistoryStore struct {
	mu      sync.RWMutex
	reports []domain.GeneratedReport
}

// NewHistoryStore creates a new in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

// Record appends a generated report.
func (s *HistoryStore) Record(_ context.Context, report *domain.GeneratedReport) error {
	if report == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, *report)
	return nil
}

// List returns the reports for a run in recording order.
func (s *HistoryStore) List(_ context.Context, runID string) ([]domain.GeneratedReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.GeneratedReport
	for _, r := range s.reports {
		if runID == "" || r.RunID == runID {
			out = append(out, r)
		}
	}
	return out, nil
}

// Latest returns the most recently recorded report of a type.
func (s *HistoryStore) Latest(_ context.Context, reportType string) (*domain.GeneratedReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.reports) - 1; i >= 0; i-- {
		if s.reports[i].ReportType == reportType {
			r := s.reports[i]
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Close is a no-op for the memory store.
func (s *HistoryStore) Close() error {
	return nil
}
