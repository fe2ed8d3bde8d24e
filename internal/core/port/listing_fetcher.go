package port

import (
	"context"
	"realtylink-parser-service/internal/core/domain"
)

// ListingFetcherPort объединяет все операции, которые можно выполнить
// с источником данных realtylink.org.
type ListingFetcherPort interface {
	// FetchLinks извлекает ссылки на объявления с одной страницы выдачи.
	// Возвращает ссылки в порядке страницы и номер следующей страницы
	// (0, если страниц больше нет).
	FetchLinks(ctx context.Context, criteria domain.SearchCriteria, page int) (links []domain.ListingLink, nextPage int, err error)

	// FetchListingDetails загружает страницу объявления и извлекает запись целиком.
	FetchListingDetails(ctx context.Context, url string) (*domain.ListingRecord, error)
}
