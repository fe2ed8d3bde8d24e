package usecase

import (
	"context"
	"sync"

	"realtylink-parser-service/internal/contextkeys"
	"realtylink-parser-service/internal/core/domain"
	"realtylink-parser-service/internal/core/port"
	usecases_port "realtylink-parser-service/internal/core/port/usecases"

	"github.com/google/uuid"
)

// CollectListingsUseCase — агрегатор всего конвейера: собирает ссылки со
// страниц выдачи, обрабатывает каждую (загрузка + извлечение) через
// ограниченный пул воркеров и сохраняет упорядоченный результат во все
// настроенные хранилища.
type CollectListingsUseCase struct {
	fetchLinksUC  usecases_port.FetchLinksPort
	processLinkUC usecases_port.ProcessLinkPort
	storages      []port.ListingStoragePort
	workers       int
}

// NewCollectListingsUseCase создает новый экземпляр CollectListingsUseCase
func NewCollectListingsUseCase(
	fetchLinksUC usecases_port.FetchLinksPort,
	processLinkUC usecases_port.ProcessLinkPort,
	storages []port.ListingStoragePort,
	workers int,
) *CollectListingsUseCase {
	if workers < 1 {
		workers = 1
	}
	return &CollectListingsUseCase{
		fetchLinksUC:  fetchLinksUC,
		processLinkUC: processLinkUC,
		storages:      storages,
		workers:       workers,
	}
}

// Execute запускает полный проход. Ошибки отдельных объявлений (сеть,
// несовпавшая структура страницы) логируются с URL и пропускаются —
// один битый лист не отменяет весь запуск. Порядок записей в результате
// всегда повторяет порядок выдачи, а не порядок завершения воркеров.
func (uc *CollectListingsUseCase) Execute(ctx context.Context, criteria domain.SearchCriteria, runID uuid.UUID) (*domain.RunStats, error) {
	baseLogger := contextkeys.LoggerFromContext(ctx)
	ucLogger := baseLogger.WithFields(port.Fields{
		"use_case": "CollectListings",
	})

	ucLogger.Info("Starting run", port.Fields{
		"criteria":     criteria.Name,
		"target_count": criteria.TargetCount,
		"workers":      uc.workers,
	})

	links, pagesProcessed, err := uc.fetchLinksUC.Execute(ctx, criteria, runID)
	if err != nil {
		return nil, err
	}

	// Результаты индексируются позицией ссылки: итоговый порядок не
	// зависит от того, какой воркер закончил раньше.
	results := make([]*domain.ListingRecord, len(links))

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < uc.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				link := links[idx]
				record, procErr := uc.processLinkUC.Execute(ctx, link, runID)
				if procErr != nil {
					// Отказ одного объявления изолирован: соседние
					// ссылки продолжают обрабатываться.
					ucLogger.Warn("Skipping listing", port.Fields{
						"url":   link.URL,
						"error": procErr.Error(),
					})
					continue
				}
				results[idx] = record
			}
		}()
	}

dispatch:
	for i := range links {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	records := make([]domain.ListingRecord, 0, len(links))
	skipped := 0
	for _, r := range results {
		if r == nil {
			skipped++
			continue
		}
		if len(records) >= criteria.TargetCount {
			break
		}
		records = append(records, *r)
	}

	result := domain.RunResult{Records: records}
	for _, storage := range uc.storages {
		if saveErr := storage.Save(ctx, result, runID); saveErr != nil {
			ucLogger.Error("Failed to save run result", saveErr, nil)
			return nil, saveErr
		}
	}

	stats := &domain.RunStats{
		PagesProcessed:  pagesProcessed,
		LinksCollected:  len(links),
		RecordsParsed:   len(records),
		ListingsSkipped: skipped,
	}

	ucLogger.Info("Run completed", port.Fields{
		"pages_processed":  stats.PagesProcessed,
		"links_collected":  stats.LinksCollected,
		"records_parsed":   stats.RecordsParsed,
		"listings_skipped": stats.ListingsSkipped,
	})

	return stats, nil
}
