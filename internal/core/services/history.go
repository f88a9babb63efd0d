package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
	"github.com/custodia-labs/sceneload/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// defaultHistoryLimit is used when Recent is called with a non-positive limit.
const defaultHistoryLimit = 20

// HistoryService reads and prunes recorded load outcomes.
type HistoryService struct {
	store driven.LoadHistoryStore
	keep  int
}

// NewHistoryService creates a history service retaining keep records on prune.
func NewHistoryService(store driven.LoadHistoryStore, keep int) *HistoryService {
	if keep <= 0 {
		keep = domain.DefaultLoaderSettings().History.Keep
	}
	return &HistoryService{
		store: store,
		keep:  keep,
	}
}

// Recent returns the most recent load records, newest first.
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]domain.LoadRecord, error) {
	if s.store == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	records, err := s.store.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("read load history: %w", err)
	}
	return records, nil
}

// Prune drops records beyond the configured retention.
func (s *HistoryService) Prune(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Prune(ctx, s.keep); err != nil {
		return fmt.Errorf("prune load history: %w", err)
	}
	return nil
}
