package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ParserConfig хранит параметры самого парсера
type ParserConfig struct {
	CategoryURL string
	TargetCount int
	// Количество воркеров для загрузки страниц объявлений.
	// 1 — последовательный базовый режим.
	Workers int
	// Задержка между запросами к сайту, секунды.
	DelaySeconds int
}

// OutputConfig хранит конфигурацию выходного файла
type OutputConfig struct {
	FilePath string
}

// DBconfig хранит конфигурацию для БД (опциональный sink)
type DBconfig struct {
	URL string
}

// RabbitMQConfig хранит конфигурацию для RabbitMQ (опциональный sink)
type RabbitMQConfig struct {
	URL string
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName      string
	Parser       ParserConfig
	Output       OutputConfig
	Database     DBconfig
	RabbitMQ     RabbitMQConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

// LoadConfig загружает конфигурацию из переменных окружения.
// .env подхватывается, если он есть; его отсутствие не ошибка —
// утилита должна запускаться и с "чистым" окружением.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Printf("Info: Could not load .env file (path: %v): %v.\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "realtylink-parser-service")

	cfg.Parser.CategoryURL = getEnvAsString("CATEGORY_URL", "")
	cfg.Parser.TargetCount = getEnvAsInt("TARGET_COUNT", 0)
	if cfg.Parser.TargetCount < 0 {
		return nil, fmt.Errorf("TARGET_COUNT must be non-negative, got %d", cfg.Parser.TargetCount)
	}

	cfg.Parser.Workers = getEnvAsInt("FETCH_WORKERS", 1)
	if cfg.Parser.Workers < 1 {
		cfg.Parser.Workers = 1
	}
	cfg.Parser.DelaySeconds = getEnvAsInt("FETCH_DELAY_SECONDS", 1)

	cfg.Output.FilePath = getEnvAsString("OUTPUT_FILE", "listings.json")

	// Оба sink'а опциональны: пустой URL значит "выключено".
	cfg.Database.URL = os.Getenv("DATABASE_URL")
	cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}

		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	return cfg, nil
}

// getEnvAsString читает переменную окружения как строку или возвращает значение по умолчанию
func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt читает переменную окружения как int или возвращает значение по умолчанию
// Логирует ошибку, если переменная есть, но не может быть преобразована в int
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

// getEnvAsBool читает переменную окружения как bool или возвращает значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}
