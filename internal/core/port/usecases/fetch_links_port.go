package usecases_port

import (
	"context"
	"realtylink-parser-service/internal/core/domain"

	"github.com/google/uuid"
)

type FetchLinksPort interface {
	Execute(ctx context.Context, criteria domain.SearchCriteria, runID uuid.UUID) ([]domain.ListingLink, int, error)
}
