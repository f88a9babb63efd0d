package driven

import (
	"context"

	"github.com/custodia-labs/sceneload/internal/core/domain"
)

// LoadHistoryStore persists a summary of every dispatched load request.
type LoadHistoryStore interface {
	// Record appends a load record.
	Record(ctx context.Context, record *domain.LoadRecord) error

	// Recent returns the most recent records, newest first.
	Recent(ctx context.Context, limit int) ([]domain.LoadRecord, error)

	// Prune keeps only the most recent keep records.
	Prune(ctx context.Context, keep int) error
}
