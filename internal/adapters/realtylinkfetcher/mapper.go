package realtylinkfetcher

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"realtylink-parser-service/internal/core/domain"
	"realtylink-parser-service/internal/core/port"

	"github.com/PuerkitoBio/goquery"
)

var (
	reInteger = regexp.MustCompile(`\d+`)
	reDecimal = regexp.MustCompile(`[0-9][0-9 ,]*(?:\.[0-9]+)?`)
)

// priceStrategy — одна из стратегий извлечения цены. Стратегии пробуются
// по порядку, победившая фиксируется в логе: поведение детерминировано
// и его можно отлаживать.
type priceStrategy struct {
	name    string
	extract func(doc *goquery.Document) string
}

var priceStrategies = []priceStrategy{
	{
		name: "meta_itemprop_price",
		extract: func(doc *goquery.Document) string {
			content, _ := doc.Find(selPriceMeta).First().Attr("content")
			return strings.TrimSpace(content)
		},
	},
	{
		// Текст родителя span.text-nowrap: "... 1,300 $ /month" — берем
		// второе и третье слово, как их печатает сайт.
		name: "price_container_text",
		extract: func(doc *goquery.Document) string {
			nowrap := doc.Find(selPriceText).First()
			if nowrap.Length() == 0 {
				return ""
			}
			words := strings.Fields(nowrap.Parent().Text())
			if len(words) < 3 {
				return ""
			}
			return words[1] + words[2]
		},
	},
}

// mapListingRecord превращает тело страницы объявления в доменную запись.
// Обязательные поля (title, region, address, price) без значения — ошибка
// ExtractionError; опциональные подставляются пустыми значениями.
func mapListingRecord(body []byte, pageURL string, logger port.LoggerPort) (*domain.ListingRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &domain.ExtractionError{URL: pageURL, Field: "document"}
	}

	title := strings.TrimSpace(doc.Find(selTitle).First().Text())
	if title == "" {
		return nil, &domain.ExtractionError{URL: pageURL, Field: "title"}
	}

	address, region := parseAddress(doc)
	if address == "" {
		return nil, &domain.ExtractionError{URL: pageURL, Field: "address"}
	}
	if region == "" {
		return nil, &domain.ExtractionError{URL: pageURL, Field: "region"}
	}

	price, strategyName := parsePrice(doc)
	if price == "" {
		return nil, &domain.ExtractionError{URL: pageURL, Field: "price"}
	}
	logger.Debug("Price extracted", port.Fields{"strategy": strategyName})

	record := &domain.ListingRecord{
		URL:         pageURL,
		Title:       title,
		Region:      region,
		Address:     address,
		Description: parseDescription(doc),
		Images:      parsePhotoArray(doc),
		Price:       price,
		Rooms:       parseRooms(doc),
		Area:        parseArea(doc),
	}

	return record, nil
}

// parseAddress возвращает полный адрес и регион — часть адреса после
// первой запятой.
func parseAddress(doc *goquery.Document) (address, region string) {
	address = normalizeSpace(doc.Find(selAddress).First().Text())
	if address == "" {
		return "", ""
	}
	parts := strings.SplitN(address, ", ", 2)
	if len(parts) == 2 {
		region = parts[1]
	}
	return address, region
}

func parsePrice(doc *goquery.Document) (price, strategyName string) {
	for _, s := range priceStrategies {
		if v := s.extract(doc); v != "" {
			return v, s.name
		}
	}
	return "", ""
}

func parseDescription(doc *goquery.Document) string {
	return normalizeSpace(doc.Find(selDescription).First().Text())
}

// parsePhotoArray достает массив фотографий из script-тега с
// window.MosaicPhotoUrls: срез между первой '[' и первой ']' — валидный
// JSON-массив строк.
func parsePhotoArray(doc *goquery.Document) []string {
	photos := []string{}

	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if !strings.Contains(text, mosaicPhotoMarker) {
			return true
		}

		start := strings.Index(text, "[")
		end := strings.Index(text, "]")
		if start == -1 || end == -1 || end <= start {
			return false
		}

		var urls []string
		if err := json.Unmarshal([]byte(text[start:end+1]), &urls); err == nil {
			photos = urls
		}
		return false
	})

	return photos
}

// parseRooms извлекает количество спален; nil, если на странице его нет.
func parseRooms(doc *goquery.Document) *int {
	text := strings.TrimSpace(doc.Find(selRooms).First().Text())
	match := reInteger.FindString(text)
	if match == "" {
		return nil
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return nil
	}
	return &n
}

// parseArea извлекает жилую площадь; nil, если на странице ее нет.
func parseArea(doc *goquery.Document) *float64 {
	text := strings.TrimSpace(doc.Find(selAreaValue).First().Text())
	match := reDecimal.FindString(text)
	if match == "" {
		return nil
	}
	match = strings.ReplaceAll(match, ",", "")
	match = strings.ReplaceAll(match, " ", "")
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return nil
	}
	return &v
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
