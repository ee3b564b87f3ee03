package services

import (
	"context"

	"github.com/custodia-labs/healthdoc/internal/core/domain"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driven"
	"github.com/custodia-labs/healthdoc/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService exposes render history. A nil store yields empty history.
type HistoryService struct {
	store driven.HistoryStore
}

// NewHistoryService creates a history service.
func NewHistoryService(store driven.HistoryStore) *HistoryService {
	return &HistoryService{
		store: store,
	}
}

// List returns the reports generated for a run, or every run when runID is empty.
func (s *HistoryService) List(ctx context.Context, runID string) ([]domain.GeneratedReport, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.List(ctx, runID)
}

// Latest returns the most recent report of a type.
func (s *HistoryService) Latest(ctx context.Context, reportType string) (*domain.GeneratedReport, error) {
	if s.store == nil {
		return nil, domain.ErrNotFound
	}
	return s.store.Latest(ctx, reportType)
}
