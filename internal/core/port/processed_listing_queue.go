package port

import (
	"context"
	"realtylink-parser-service/internal/core/domain"

	"github.com/google/uuid"
)

// ProcessedListingQueuePort определяет контракт для публикации
// разобранных объявлений во внешнюю очередь событий.
type ProcessedListingQueuePort interface {
	Enqueue(ctx context.Context, record domain.ListingRecord, runID uuid.UUID) error
}
