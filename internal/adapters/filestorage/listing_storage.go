package filestorage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"realtylink-parser-service/internal/contextkeys"
	"realtylink-parser-service/internal/core/domain"
	"realtylink-parser-service/internal/core/port"

	"github.com/google/uuid"
)

// ListingFileStorageAdapter реализует ListingStoragePort для сохранения
// результата запуска в JSON-файл
type ListingFileStorageAdapter struct {
	filename string
	mu       sync.Mutex // Для безопасной записи в файл из нескольких горутин
}

// NewListingFileStorageAdapter создает новый адаптер
func NewListingFileStorageAdapter(filename string) (*ListingFileStorageAdapter, error) {
	if filename == "" {
		return nil, fmt.Errorf("filename cannot be empty")
	}
	return &ListingFileStorageAdapter{
		filename: filename,
	}, nil
}

// Save записывает весь результат одним JSON-массивом. Файл перезаписывается
// целиком: каждый запуск дает один самодостаточный документ, а не дозапись.
func (a *ListingFileStorageAdapter) Save(ctx context.Context, result domain.RunResult, runID uuid.UUID) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	logger := contextkeys.LoggerFromContext(ctx)

	records := result.Records
	if records == nil {
		records = []domain.ListingRecord{}
	}
	for i := range records {
		if records[i].Images == nil {
			records[i].Images = []string{}
		}
	}

	// Сериализуем с отступами для читаемости
	prettyJSON, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format run result to pretty JSON: %w", err)
	}

	if err := os.WriteFile(a.filename, append(prettyJSON, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write output file '%s': %w", a.filename, err)
	}

	logger.Info("Run result saved to file", port.Fields{
		"file":    a.filename,
		"records": len(records),
		"run_id":  runID.String(),
	})
	return nil
}
