package driving

import (
	"context"

	"github.com/custodia-labs/sceneload/internal/core/domain"
)

// HistoryService exposes recorded load outcomes.
type HistoryService interface {
	// Recent returns the most recent load records, newest first.
	Recent(ctx context.Context, limit int) ([]domain.LoadRecord, error)

	// Prune drops records beyond the configured retention.
	Prune(ctx context.Context) error
}
