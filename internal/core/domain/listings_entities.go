package domain

// ListingLink представляет ссылку на страницу одного объявления,
// полученную со страницы поисковой выдачи.
type ListingLink struct {
	URL    string
	Source string
	// Номер страницы выдачи и позиция на ней — определяют итоговый порядок записей.
	Page     int
	Position int
}

// SearchCriteria определяет параметры одного запуска парсера.
type SearchCriteria struct {
	Name string

	// URL страницы поисковой выдачи ("Residential: For Rent").
	CategoryURL string
	// Максимальное количество записей за запуск.
	TargetCount int
}

// ListingRecord — итоговая запись об одном объявлении.
// Имена и типы JSON-полей зафиксированы контрактом выходного файла:
// отсутствующие опциональные поля сериализуются как ""/[]/null,
// никогда не пропускаются.
type ListingRecord struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Region      string   `json:"region"`
	Address     string   `json:"address"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Price       string   `json:"price"`
	Rooms       *int     `json:"rooms"`
	Area        *float64 `json:"area"`
}

// RunResult — упорядоченный результат одного запуска.
type RunResult struct {
	Records []ListingRecord
}

// RunStats собирает статистику запуска для итогового лога.
type RunStats struct {
	PagesProcessed  int
	LinksCollected  int
	RecordsParsed   int
	ListingsSkipped int
}
