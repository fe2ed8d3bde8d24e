package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"realtylink-parser-service/internal/adapters/filestorage"
	logger_adapter "realtylink-parser-service/internal/adapters/logger"
	postgres_adapter "realtylink-parser-service/internal/adapters/postgres"
	rabbitmq_adapter "realtylink-parser-service/internal/adapters/rabbitmq"
	"realtylink-parser-service/internal/adapters/realtylinkfetcher"
	"realtylink-parser-service/internal/configs"
	"realtylink-parser-service/internal/constants"
	"realtylink-parser-service/internal/contextkeys"
	"realtylink-parser-service/internal/core/domain"
	"realtylink-parser-service/internal/core/port"
	usecases_port "realtylink-parser-service/internal/core/port/usecases"
	"realtylink-parser-service/internal/core/usecase"
	fluentlogger "realtylink-parser-service/pkg/fluent_logger"
	"realtylink-parser-service/pkg/postgres"
	"realtylink-parser-service/pkg/rabbitmq/rabbitmq_common"
	"realtylink-parser-service/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// App – структура приложения
type App struct {
	config        *configs.AppConfig
	dbPool        *pgxpool.Pool
	connManager   *rabbitmq_common.ConnectionManager
	eventProducer *rabbitmq_producer.Publisher
	fluentClient  *fluent.Fluent
	logger        port.LoggerPort

	runID    uuid.UUID
	criteria domain.SearchCriteria

	collectListingsUseCase usecases_port.CollectListingsPort
}

// NewApp создает новый экземпляр приложения.
// Это "Composition Root", где все зависимости создаются и связываются.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ИНИЦИАЛИЗАЦИЯ ЛОГГЕРОВ ---
	var activeLoggers []port.LoggerPort

	slogCfg := logger_adapter.SlogConfig{
		Level:    parseLogLevel(appConfig.StdoutLogger.Level),
		IsJSON:   false,
		UseColor: true,
	}
	stdoutLogger := logger_adapter.NewSlogAdapter(slogCfg)
	activeLoggers = append(activeLoggers, stdoutLogger)

	// Добавляем Fluent Bit логгер, если он включен в конфигурации
	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	// --- 2. СОЗДАЕМ БАЗОВЫЙ ЛОГГЕР ПРИЛОЖЕНИЯ С КОНТЕКСТОМ ---
	runID := uuid.New()
	baseLogger := multiLogger.WithFields(port.Fields{
		"service_name": appConfig.AppName,
		"run_id":       runID.String(),
	})

	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	// --- 3. ИНИЦИАЛИЗАЦИЯ НИЗКОУРОВНЕВЫХ ЗАВИСИМОСТЕЙ ---
	fetcherAdapter, err := realtylinkfetcher.NewRealtylinkFetcherAdapter(
		constants.BaseURL,
		constants.AllowedDomain,
		appConfig.Parser.Workers,
		time.Duration(appConfig.Parser.DelaySeconds)*time.Second,
	)
	if err != nil {
		appLogger.Error("Failed to create Realtylink Fetcher Adapter", err, nil)
		return nil, fmt.Errorf("failed to initialize realtylink fetcher: %w", err)
	}
	appLogger.Info("Realtylink Fetcher Adapter initialized.", nil)

	// Хранилища: файл всегда, PostgreSQL только при заданном DATABASE_URL
	var storages []port.ListingStoragePort

	fileStorageAdapter, err := filestorage.NewListingFileStorageAdapter(appConfig.Output.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file storage adapter: %w", err)
	}
	storages = append(storages, fileStorageAdapter)

	var dbPool *pgxpool.Pool
	if appConfig.Database.URL != "" {
		dbPool, err = postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: appConfig.Database.URL})
		if err != nil {
			appLogger.Error("Failed to connect to PostgreSQL", err, nil)
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

		postgresStorageAdapter, err := postgres_adapter.NewPostgresStorageAdapter(dbPool)
		if err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("failed to create postgres storage adapter: %w", err)
		}
		storages = append(storages, postgresStorageAdapter)
	}

	// Публикация обработанных объявлений в RabbitMQ при заданном RABBITMQ_URL
	var connManager *rabbitmq_common.ConnectionManager
	var eventProducer *rabbitmq_producer.Publisher
	var processedListingQueueAdapter port.ProcessedListingQueuePort

	if appConfig.RabbitMQ.URL != "" {
		connManagerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"})
		connManagerBridge := rabbitmq_adapter.NewPkgLoggerBridge(connManagerLogger)
		connManager, err = rabbitmq_common.GetManager(appConfig.RabbitMQ.URL, connManagerBridge)
		if err != nil {
			appLogger.Error("Failed to create connection manager", err, nil)
			if dbPool != nil {
				dbPool.Close()
			}
			return nil, fmt.Errorf("failed to create connection manager: %w", err)
		}
		appLogger.Info("RabbitMQ Connection Manager initialized.", nil)

		producerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})
		producerCfg := rabbitmq_producer.PublisherConfig{
			Config:                   rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
			ExchangeName:             constants.ExchangeName,
			ExchangeType:             "direct",
			DurableExchange:          true,
			DeclareExchangeIfMissing: true,
			Logger:                   rabbitmq_adapter.NewPkgLoggerBridge(producerLogger),
		}
		eventProducer, err = rabbitmq_producer.NewPublisher(producerCfg, connManager)
		if err != nil {
			appLogger.Error("Failed to create event producer", err, port.Fields{"url": appConfig.RabbitMQ.URL})
			connManager.Close()
			if dbPool != nil {
				dbPool.Close()
			}
			return nil, fmt.Errorf("failed to create event producer: %w", err)
		}
		appLogger.Info("RabbitMQ Event Producer initialized.", nil)

		processedListingQueueAdapter, err = rabbitmq_adapter.NewRabbitMQProcessedListingQueueAdapter(eventProducer, constants.RoutingKeyProcessedListings)
		if err != nil {
			eventProducer.Close()
			connManager.Close()
			if dbPool != nil {
				dbPool.Close()
			}
			return nil, err
		}
	}

	appLogger.Info("All outgoing adapters initialized.", nil)

	// --- 4. ИНИЦИАЛИЗАЦИЯ USE CASES (ядра бизнес-логики) ---
	criteria := constants.GetDefaultSearch()
	if appConfig.Parser.CategoryURL != "" {
		criteria.CategoryURL = appConfig.Parser.CategoryURL
	}
	if appConfig.Parser.TargetCount > 0 {
		criteria.TargetCount = appConfig.Parser.TargetCount
	}

	fetchLinksUseCase := usecase.NewFetchLinksUseCase(fetcherAdapter, "realtylink")
	processLinkUseCase := usecase.NewProcessLinkUseCase(fetcherAdapter, processedListingQueueAdapter)
	collectListingsUseCase := usecase.NewCollectListingsUseCase(
		fetchLinksUseCase,
		processLinkUseCase,
		storages,
		appConfig.Parser.Workers,
	)
	appLogger.Info("All use cases initialized.", nil)

	// --- 5. Собираем приложение ---
	application := &App{
		config:                 appConfig,
		dbPool:                 dbPool,
		connManager:            connManager,
		eventProducer:          eventProducer,
		fluentClient:           fluentClient,
		logger:                 appLogger,
		runID:                  runID,
		criteria:               criteria,
		collectListingsUseCase: collectListingsUseCase,
	}

	return application, nil
}

// Run выполняет один проход конвейера и управляет жизненным циклом ресурсов.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())

	defer func() {
		a.logger.Info("Shutdown sequence initiated...", nil)

		if a.eventProducer != nil {
			if err := a.eventProducer.Close(); err != nil {
				a.logger.Error("Error closing event producer", err, nil)
			}
		}
		if a.connManager != nil {
			if err := a.connManager.Close(); err != nil {
				a.logger.Error("Error closing RabbitMQ connection manager", err, nil)
			}
		}
		if a.dbPool != nil {
			a.dbPool.Close()
			a.logger.Info("PostgreSQL pool closed.", nil)
		}

		a.logger.Info("Application shut down gracefully.", nil)

		if a.fluentClient != nil {
			if err := a.fluentClient.Close(); err != nil {
				log.Printf("App: Error closing fluent client: %v\n", err)
			}
		}
	}()

	a.logger.Info("Application is starting...", nil)

	runCtx := contextkeys.ContextWithLogger(appCtx, a.logger)
	runCtx = contextkeys.ContextWithTraceID(runCtx, a.runID.String())

	pipelineErrors := make(chan error, 1)
	startedAt := time.Now()

	go func() {
		stats, err := a.collectListingsUseCase.Execute(runCtx, a.criteria, a.runID)
		if err != nil {
			pipelineErrors <- err
			return
		}
		a.logger.Info("Pipeline finished", port.Fields{
			"duration":         time.Since(startedAt).String(),
			"pages_processed":  stats.PagesProcessed,
			"links_collected":  stats.LinksCollected,
			"records_parsed":   stats.RecordsParsed,
			"listings_skipped": stats.ListingsSkipped,
		})
		pipelineErrors <- nil
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received signal, shutting down", port.Fields{"signal": receivedSignal.String()})
		cancelApp()
		// Даем конвейеру завершить начатое
		runErr = <-pipelineErrors
	case err := <-pipelineErrors:
		if err != nil {
			a.logger.Error("Pipeline failed", err, nil)
			runErr = err
		}
	}

	cancelApp()
	return runErr
}

func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: Unknown log level '%s'. Defaulting to 'info'.", levelStr)
		return slog.LevelInfo
	}
}
