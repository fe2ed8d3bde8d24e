package usecase

import (
	"context"

	"realtylink-parser-service/internal/contextkeys"
	"realtylink-parser-service/internal/core/domain"
	"realtylink-parser-service/internal/core/port"

	"github.com/google/uuid"
)

// FetchLinksUseCase инкапсулирует обход страниц выдачи: собирает ссылки
// на объявления в порядке выдачи, пока их не наберется TargetCount или
// страницы не закончатся.
type FetchLinksUseCase struct {
	fetcherRepo port.ListingFetcherPort
	sourceName  string
}

// NewFetchLinksUseCase создает новый экземпляр FetchLinksUseCase
func NewFetchLinksUseCase(fetcher port.ListingFetcherPort, sourceName string) *FetchLinksUseCase {
	return &FetchLinksUseCase{
		fetcherRepo: fetcher,
		sourceName:  sourceName,
	}
}

// Execute возвращает собранные ссылки и количество обработанных страниц.
// Ошибка первой же страницы фатальна для запуска (StartupError); ошибка
// на последующих страницах останавливает пагинацию, сохраняя уже
// собранные ссылки.
func (uc *FetchLinksUseCase) Execute(ctx context.Context, criteria domain.SearchCriteria, runID uuid.UUID) ([]domain.ListingLink, int, error) {
	baseLogger := contextkeys.LoggerFromContext(ctx)
	ucLogger := baseLogger.WithFields(port.Fields{
		"use_case": "FetchLinks",
		"source":   uc.sourceName,
	})

	ucLogger.Info("Starting to fetch links", port.Fields{
		"criteria":     criteria.Name,
		"target_count": criteria.TargetCount,
	})

	var collected []domain.ListingLink
	seen := make(map[string]bool)
	page := 1
	totalPagesProcessed := 0

	for {
		select {
		case <-ctx.Done():
			return collected, totalPagesProcessed, ctx.Err()
		default:
		}

		pageLogger := ucLogger.WithFields(port.Fields{"page": page})
		pageLogger.Debug("Fetching page", nil)

		links, nextPage, fetchErr := uc.fetcherRepo.FetchLinks(ctx, criteria, page)
		if fetchErr != nil {
			if totalPagesProcessed == 0 {
				pageLogger.Error("Initial index page unreachable", fetchErr, nil)
				return nil, 0, &domain.StartupError{Err: fetchErr}
			}
			// Уже что-то собрали — останавливаемся, а не роняем запуск.
			pageLogger.Warn("Failed to fetch index page, stopping pagination", port.Fields{
				"error": fetchErr.Error(),
			})
			break
		}
		totalPagesProcessed++

		newLinksOnPage := 0
		for _, link := range links {
			if seen[link.URL] {
				continue
			}
			seen[link.URL] = true
			link.Source = uc.sourceName
			collected = append(collected, link)
			newLinksOnPage++

			if len(collected) >= criteria.TargetCount {
				break
			}
		}

		pageLogger.Debug("Collected links from page", port.Fields{"count": newLinksOnPage})

		if len(collected) >= criteria.TargetCount {
			ucLogger.Debug("Target count reached. Stopping pagination.", port.Fields{"collected": len(collected)})
			break
		}

		if nextPage == 0 {
			ucLogger.Debug("No next page. Source exhausted.", port.Fields{"collected": len(collected)})
			break
		}
		page = nextPage
	}

	ucLogger.Info("Finished fetching links", port.Fields{
		"total_links_collected": len(collected),
		"total_pages_processed": totalPagesProcessed,
	})

	return collected, totalPagesProcessed, nil
}
