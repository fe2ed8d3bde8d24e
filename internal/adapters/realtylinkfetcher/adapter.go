package realtylinkfetcher

import (
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"
)

// RealtylinkFetcherAdapter отвечает за все взаимодействия с сайтом realtylink.org
type RealtylinkFetcherAdapter struct {
	// родительский коллектор, который разделяет лимиты
	collector *colly.Collector
	baseURL   string
}

// NewRealtylinkFetcherAdapter - конструктор
func NewRealtylinkFetcherAdapter(baseURL, allowedDomain string, parallelism int, delay time.Duration) (*RealtylinkFetcherAdapter, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("RealtylinkFetcherAdapter: baseURL is required")
	}

	// родительский коллектор
	c := colly.NewCollector(
		colly.AllowedDomains(allowedDomain),
		colly.AllowURLRevisit(),
	)

	// Эти правила будут наследоваться всеми клонами коллектора
	err := c.Limit(&colly.LimitRule{
		DomainGlob:  allowedDomain,
		Parallelism: parallelism,
		RandomDelay: delay,
	})
	if err != nil {
		return nil, fmt.Errorf("RealtylinkFetcherAdapter: failed to set limit rule: %w", err)
	}

	extensions.RandomUserAgent(c) // На каждый запрос будет подставлен User-Agent реального браузера
	extensions.Referer(c)         // Автоматически подставляет заголовок Referer, имитируя навигацию

	return &RealtylinkFetcherAdapter{
		collector: c,
		baseURL:   baseURL,
	}, nil
}
