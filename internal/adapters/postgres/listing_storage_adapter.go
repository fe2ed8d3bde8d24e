package postgres

import (
	"context"
	"fmt"

	"realtylink-parser-service/internal/contextkeys"
	"realtylink-parser-service/internal/core/domain"
	"realtylink-parser-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorageAdapter реализует ListingStoragePort для PostgreSQL.
type PostgresStorageAdapter struct {
	pool *pgxpool.Pool
}

// NewPostgresStorageAdapter создает новый экземпляр адаптера.
func NewPostgresStorageAdapter(pool *pgxpool.Pool) (*PostgresStorageAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &PostgresStorageAdapter{
		pool: pool,
	}, nil
}

// Save сохраняет все записи запуска в базу данных в рамках одной транзакции.
// Повторный запуск по тем же объявлениям обновляет существующие строки по url.
func (a *PostgresStorageAdapter) Save(ctx context.Context, result domain.RunResult, runID uuid.UUID) error {
	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	sql := `
		INSERT INTO listings (
			url, run_id, title, region, address, description, images, price, rooms, area, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now()
		)
		ON CONFLICT (url) DO UPDATE SET
			run_id = EXCLUDED.run_id,
			title = EXCLUDED.title,
			region = EXCLUDED.region,
			address = EXCLUDED.address,
			description = EXCLUDED.description,
			images = EXCLUDED.images,
			price = EXCLUDED.price,
			rooms = EXCLUDED.rooms,
			area = EXCLUDED.area,
			updated_at = now();
	`

	for _, record := range result.Records {
		images := record.Images
		if images == nil {
			images = []string{}
		}
		_, err = tx.Exec(ctx, sql,
			record.URL, runID, record.Title, record.Region, record.Address,
			record.Description, images, record.Price, record.Rooms, record.Area,
		)
		if err != nil {
			return fmt.Errorf("failed to insert/update listing %s: %w", record.URL, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	contextkeys.LoggerFromContext(ctx).Info("Run result saved to database", port.Fields{
		"records": len(result.Records),
		"run_id":  runID.String(),
	})
	return nil
}
