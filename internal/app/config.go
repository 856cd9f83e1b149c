package app

import (
	"errors"
	"os"
	"strconv"
)

// Драйверы хранилища локального индекса заказов.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

var (
	ErrProviderTokenRequired  = errors.New("provider api token is required (PRINTIFY_API_TOKEN)")
	ErrProviderShopIDRequired = errors.New("provider shop id is required (PRINTIFY_SHOP_ID)")
	ErrUnknownStorageDriver   = errors.New("unknown storage driver")
)

// Config описывает настройки запуска приложения.
type Config struct {
	HTTPAddr    string
	MetricsAddr string

	ProviderToken   string
	ProviderShopID  string
	ProviderBaseURL string

	StorageDriver       string
	PostgresDSN         string
	PostgresAutoMigrate bool

	KafkaBrokers string

	// Environment — "production" или "development"; в development ответы об
	// ошибках содержат debug-детали.
	Environment string
}

// DefaultConfig возвращает базовые адреса и безопасные значения по умолчанию.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:      ":8080",
		MetricsAddr:   ":9090",
		StorageDriver: StorageMemory,
		Environment:   "production",
	}
}

// ReadConfig собирает конфигурацию из окружения поверх значений по умолчанию.
func ReadConfig() Config {
	cfg := DefaultConfig()

	readEnv := func(key string, target *string) {
		if v := os.Getenv(key); v != "" {
			*target = v
		}
	}

	readEnv("HTTP_ADDR", &cfg.HTTPAddr)
	readEnv("METRICS_ADDR", &cfg.MetricsAddr)
	readEnv("PRINTIFY_API_TOKEN", &cfg.ProviderToken)
	readEnv("PRINTIFY_SHOP_ID", &cfg.ProviderShopID)
	readEnv("PRINTIFY_BASE_URL", &cfg.ProviderBaseURL)
	readEnv("STORAGE_DRIVER", &cfg.StorageDriver)
	readEnv("POSTGRES_DSN", &cfg.PostgresDSN)
	readEnv("KAFKA_BROKERS", &cfg.KafkaBrokers)
	readEnv("APP_ENV", &cfg.Environment)

	if v := os.Getenv("POSTGRES_AUTO_MIGRATE"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			cfg.PostgresAutoMigrate = parsed
		}
	}

	return cfg
}

// Validate проверяет, что конфигурация пригодна для запуска.
// Отсутствие учётных данных провайдера — ошибка конфигурации, а не рантайма:
// без них ни один вызов провайдера не пройдёт.
func (c Config) Validate() error {
	if c.ProviderToken == "" {
		return ErrProviderTokenRequired
	}
	if c.ProviderShopID == "" {
		return ErrProviderShopIDRequired
	}
	switch c.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if c.PostgresDSN == "" {
			return errors.New("postgres storage requires POSTGRES_DSN")
		}
	default:
		return ErrUnknownStorageDriver
	}
	return nil
}

// Development сообщает, запущено ли приложение в dev-окружении.
func (c Config) Development() bool {
	return c.Environment == "development"
}
