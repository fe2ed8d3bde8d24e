package realtylinkfetcher

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"realtylink-parser-service/internal/contextkeys"
	"realtylink-parser-service/internal/core/domain"
	"realtylink-parser-service/internal/core/port"

	"github.com/gocolly/colly/v2"
)

// FetchLinks возвращает ссылки одной страницы выдачи и номер следующей
// страницы (или 0, если страниц больше нет). Порядок ссылок — порядок
// их появления в разметке.
func (a *RealtylinkFetcherAdapter) FetchLinks(ctx context.Context, criteria domain.SearchCriteria, page int) ([]domain.ListingLink, int, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	fetchLinksLogger := logger.WithFields(port.Fields{"component": "RealtylinkFetcherAdapter(FetchLinks)"})

	collector := a.collector.Clone()
	var fetchedLinks []domain.ListingLink
	var responseErr error
	var nextPage int

	pageURL, err := buildPageURL(criteria.CategoryURL, page)
	if err != nil {
		return nil, 0, fmt.Errorf("realtylink adapter: failed to build page url: %w", err)
	}

	collector.OnRequest(func(r *colly.Request) {
		fetchLinksLogger.Debug("Making request to fetch links", port.Fields{
			"url":  r.URL.String(),
			"page": page,
		})
	})

	collector.OnHTML(selListingLink, func(e *colly.HTMLElement) {
		href := e.Attr("href")
		if href == "" {
			return
		}
		fetchedLinks = append(fetchedLinks, domain.ListingLink{
			URL:      e.Request.AbsoluteURL(href),
			Source:   "realtylink.org",
			Page:     page,
			Position: len(fetchedLinks),
		})
	})

	// Кнопка "next" присутствует и активна — есть следующая страница.
	collector.OnHTML(selNextButton, func(e *colly.HTMLElement) {
		if e.Attr("class") != "" && hasClass(e.Attr("class"), inactiveClass) {
			return
		}
		nextPage = page + 1
	})

	collector.OnError(func(r *colly.Response, err error) {
		fetchLinksLogger.Error("Failed to fetch links page", err, port.Fields{
			"url":    r.Request.URL.String(),
			"status": r.StatusCode,
		})
		responseErr = &domain.FetchError{URL: r.Request.URL.String(), StatusCode: r.StatusCode, Err: err}
	})

	// При не-2xx ответе Visit тоже возвращает ошибку; OnError к этому
	// моменту уже собрал FetchError со статусом — он информативнее.
	if err := collector.Visit(pageURL); err != nil && responseErr == nil {
		fetchLinksLogger.Error("Failed to visit index page", err, port.Fields{"url": pageURL})
		return nil, 0, &domain.FetchError{URL: pageURL, Err: err}
	}
	collector.Wait()

	if responseErr != nil {
		return nil, 0, responseErr
	}

	// Пустая страница — выдача исчерпана, дальше не листаем.
	if len(fetchedLinks) == 0 {
		nextPage = 0
	}

	fetchLinksLogger.Info("Finished fetching links for page", port.Fields{
		"page":          page,
		"links_fetched": len(fetchedLinks),
		"next_page":     nextPage,
	})

	return fetchedLinks, nextPage, nil
}

// buildPageURL добавляет номер страницы к URL категории.
// Первая страница — URL категории как есть.
func buildPageURL(categoryURL string, page int) (string, error) {
	if page <= 1 {
		return categoryURL, nil
	}
	u, err := url.Parse(categoryURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func hasClass(classAttr, class string) bool {
	for _, c := range strings.Fields(classAttr) {
		if c == class {
			return true
		}
	}
	return false
}
