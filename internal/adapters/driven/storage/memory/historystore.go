package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/sceneload/internal/core/domain"
	"github.com/custodia-labs/sceneload/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.LoadHistoryStore = (*HistoryStore)(nil)

// HistoryStore is an in-memory implementation of driven.LoadHistoryStore.
// Records are kept in insertion order.
type HistoryStore struct {
	mu      sync.RWMutex
	records []domain.LoadRecord
}

// NewHistoryStore creates a new in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

// Record appends a load record.
func (s *HistoryStore) Record(_ context.Context, record *domain.LoadRecord) error {
	if record == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, *record)
	return nil
}

// Recent returns the most recent records, newest first.
func (s *HistoryStore) Recent(_ context.Context, limit int) ([]domain.LoadRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		return nil, nil
	}
	if limit > len(s.records) {
		limit = len(s.records)
	}
	out := make([]domain.LoadRecord, 0, limit)
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

// Prune keeps only the most recent keep records.
func (s *HistoryStore) Prune(_ context.Context, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if keep < 0 {
		keep = 0
	}
	if len(s.records) > keep {
		s.records = append([]domain.LoadRecord(nil), s.records[len(s.records)-keep:]...)
	}
	return nil
}

// Len returns the number of stored records.
func (s *HistoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
