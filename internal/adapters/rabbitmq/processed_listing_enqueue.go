package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"realtylink-parser-service/internal/contextkeys"
	"realtylink-parser-service/internal/core/domain"
	"realtylink-parser-service/internal/core/port"
	"realtylink-parser-service/pkg/rabbitmq/rabbitmq_producer"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ProcessedListingEventDTO — событие "объявление обработано" на проводе.
type ProcessedListingEventDTO struct {
	RunID   uuid.UUID            `json:"run_id"`
	Listing domain.ListingRecord `json:"listing"`
}

// RabbitMQProcessedListingQueueAdapter для отправки обработанных объявлений
type RabbitMQProcessedListingQueueAdapter struct {
	producer   *rabbitmq_producer.Publisher
	routingKey string
}

// NewRabbitMQProcessedListingQueueAdapter создает новый экземпляр
func NewRabbitMQProcessedListingQueueAdapter(producer *rabbitmq_producer.Publisher, routingKey string) (*RabbitMQProcessedListingQueueAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("routingKey cannot be empty")
	}

	return &RabbitMQProcessedListingQueueAdapter{
		producer:   producer,
		routingKey: routingKey,
	}, nil
}

// Enqueue отправляет ListingRecord в очередь
func (a *RabbitMQProcessedListingQueueAdapter) Enqueue(ctx context.Context, record domain.ListingRecord, runID uuid.UUID) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "RabbitMQProcessedListingQueueAdapter",
		"routing_key": a.routingKey,
	})

	if record.Images == nil {
		record.Images = []string{}
	}

	eventDTO := ProcessedListingEventDTO{
		RunID:   runID,
		Listing: record,
	}

	recordJSON, err := json.Marshal(eventDTO)
	if err != nil {
		adapterLogger.Error("Failed to marshal processed listing to JSON", err, nil)
		return fmt.Errorf("failed to marshal processed listing to JSON for URL %s: %w", record.URL, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         recordJSON,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Headers: amqp.Table{
			"event-type":    "ProcessedListingEvent",
			"event-version": "1.0.0",
		},
	}

	traceID := contextkeys.TraceIDFromContext(ctx)
	if traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = a.producer.Publish(publishCtx, a.routingKey, msg)
	if err != nil {
		adapterLogger.Error("Failed to publish processed listing", err, nil)
		return err
	}

	adapterLogger.Info("Successfully published processed listing", port.Fields{"url": record.URL})
	return nil
}
