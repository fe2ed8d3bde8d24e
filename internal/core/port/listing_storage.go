package port

import (
	"context"
	"realtylink-parser-service/internal/core/domain"

	"github.com/google/uuid"
)

// ListingStoragePort определяет контракт для сохранения результата запуска.
type ListingStoragePort interface {
	// Save записывает упорядоченный результат целиком, перезаписывая
	// предыдущий результат (между запусками состояние не переносится).
	Save(ctx context.Context, result domain.RunResult, runID uuid.UUID) error
}
