package usecases_port

import (
	"context"
	"realtylink-parser-service/internal/core/domain"

	"github.com/google/uuid"
)

type CollectListingsPort interface {
	Execute(ctx context.Context, criteria domain.SearchCriteria, runID uuid.UUID) (*domain.RunStats, error)
}
