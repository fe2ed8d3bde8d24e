package usecase

import (
	"context"
	"fmt"

	"realtylink-parser-service/internal/contextkeys"
	"realtylink-parser-service/internal/core/domain"
	"realtylink-parser-service/internal/core/port"

	"github.com/google/uuid"
)

// ProcessLinkUseCase инкапсулирует обработку одной ссылки:
// загрузка страницы объявления, извлечение записи и, если настроено,
// публикация результата во внешнюю очередь.
type ProcessLinkUseCase struct {
	detailsFetcher port.ListingFetcherPort
	resultQueue    port.ProcessedListingQueuePort // может быть nil
}

// NewProcessLinkUseCase создает новый экземпляр use case
func NewProcessLinkUseCase(fetcher port.ListingFetcherPort, queue port.ProcessedListingQueuePort) *ProcessLinkUseCase {
	return &ProcessLinkUseCase{
		detailsFetcher: fetcher,
		resultQueue:    queue,
	}
}

// Execute выполняет основную логику use case
func (uc *ProcessLinkUseCase) Execute(ctx context.Context, link domain.ListingLink, runID uuid.UUID) (*domain.ListingRecord, error) {
	baseLogger := contextkeys.LoggerFromContext(ctx)
	ucLogger := baseLogger.WithFields(port.Fields{
		"use_case": "ProcessLink",
		"url":      link.URL,
	})

	ucLogger.Debug("Processing link", nil)

	record, fetchErr := uc.detailsFetcher.FetchListingDetails(ctx, link.URL)
	if fetchErr != nil {
		ucLogger.Error("Failed to fetch/parse details", fetchErr, nil)
		return nil, fmt.Errorf("failed to fetch/parse details for %s: %w", link.URL, fetchErr)
	}

	ucLogger.Debug("Successfully parsed details.", nil)

	// Публикация — побочный sink: ее отказ не отменяет саму запись.
	if uc.resultQueue != nil {
		if err := uc.resultQueue.Enqueue(ctx, *record, runID); err != nil {
			ucLogger.Error("Failed to enqueue processed listing", err, nil)
		}
	}

	return record, nil
}
