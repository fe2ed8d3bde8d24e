package usecases_port

import (
	"context"
	"realtylink-parser-service/internal/core/domain"

	"github.com/google/uuid"
)

type ProcessLinkPort interface {
	Execute(ctx context.Context, link domain.ListingLink, runID uuid.UUID) (*domain.ListingRecord, error)
}
