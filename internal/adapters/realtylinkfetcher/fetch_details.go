package realtylinkfetcher

import (
	"context"
	"errors"

	"realtylink-parser-service/internal/contextkeys"
	"realtylink-parser-service/internal/core/domain"
	"realtylink-parser-service/internal/core/port"

	"github.com/gocolly/colly/v2"
)

var errNoResponse = errors.New("no response received")

// FetchListingDetails загружает страницу объявления и извлекает запись.
// Запись собирается целиком либо не собирается вообще.
func (a *RealtylinkFetcherAdapter) FetchListingDetails(ctx context.Context, url string) (*domain.ListingRecord, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	fetchDetailsLogger := logger.WithFields(port.Fields{"component": "RealtylinkFetcherAdapter(FetchDetails)"})

	collector := a.collector.Clone()

	var record *domain.ListingRecord
	var criticalError error

	collector.OnRequest(func(r *colly.Request) {
		fetchDetailsLogger.Debug("Making request to fetch listing details", port.Fields{
			"url": r.URL.String(),
		})
	})

	// OnResponse сработает, когда мы получим успешный ответ.
	collector.OnResponse(func(r *colly.Response) {
		if criticalError != nil || record != nil {
			return
		}

		rec, err := mapListingRecord(r.Body, url, fetchDetailsLogger)
		if err != nil {
			fetchDetailsLogger.Error("Failed to map response to listing record", err, port.Fields{"url": url})
			criticalError = err
			return
		}
		record = rec
	})

	collector.OnError(func(r *colly.Response, err error) {
		fetchDetailsLogger.Error("Failed to fetch listing details", err, port.Fields{
			"url":    r.Request.URL.String(),
			"status": r.StatusCode,
		})
		criticalError = &domain.FetchError{URL: url, StatusCode: r.StatusCode, Err: err}
	})

	// При не-2xx ответе Visit тоже возвращает ошибку; OnError к этому
	// моменту уже собрал FetchError со статусом — он информативнее.
	if visitErr := collector.Visit(url); visitErr != nil && criticalError == nil {
		return nil, &domain.FetchError{URL: url, Err: visitErr}
	}
	collector.Wait()

	if record == nil && criticalError == nil {
		return nil, &domain.FetchError{URL: url, Err: errNoResponse}
	}

	return record, criticalError
}
