package app

import (
	"errors"
	"testing"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.ProviderToken = "token"
	cfg.ProviderShopID = "12345"
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestConfig_Validate_MissingCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.ProviderToken = ""
	if err := cfg.Validate(); !errors.Is(err, ErrProviderTokenRequired) {
		t.Fatalf("expected ErrProviderTokenRequired, got %v", err)
	}

	cfg = validConfig()
	cfg.ProviderShopID = ""
	if err := cfg.Validate(); !errors.Is(err, ErrProviderShopIDRequired) {
		t.Fatalf("expected ErrProviderShopIDRequired, got %v", err)
	}
}

func TestConfig_Validate_Storage(t *testing.T) {
	cfg := validConfig()
	cfg.StorageDriver = "cassandra"
	if err := cfg.Validate(); !errors.Is(err, ErrUnknownStorageDriver) {
		t.Fatalf("expected ErrUnknownStorageDriver, got %v", err)
	}

	cfg = validConfig()
	cfg.StorageDriver = StoragePostgres
	if err := cfg.Validate(); err == nil {
		t.Fatal("postgres driver without DSN must be rejected")
	}

	cfg.PostgresDSN = "postgres://localhost/merchstore"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("postgres config with DSN rejected: %v", err)
	}
}

func TestReadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":18080")
	t.Setenv("PRINTIFY_API_TOKEN", "env-token")
	t.Setenv("PRINTIFY_SHOP_ID", "777")
	t.Setenv("STORAGE_DRIVER", StoragePostgres)
	t.Setenv("POSTGRES_DSN", "postgres://localhost/merchstore")
	t.Setenv("POSTGRES_AUTO_MIGRATE", "true")
	t.Setenv("APP_ENV", "development")

	cfg := ReadConfig()
	if cfg.HTTPAddr != ":18080" {
		t.Fatalf("expected :18080, got %s", cfg.HTTPAddr)
	}
	if cfg.ProviderToken != "env-token" || cfg.ProviderShopID != "777" {
		t.Fatalf("provider credentials not read: %+v", cfg)
	}
	if cfg.StorageDriver != StoragePostgres || !cfg.PostgresAutoMigrate {
		t.Fatalf("storage settings not read: %+v", cfg)
	}
	if !cfg.Development() {
		t.Fatal("expected development environment")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("env config rejected: %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.HTTPAddr != ":8080" || cfg.MetricsAddr != ":9090" {
		t.Fatalf("unexpected default addresses: %+v", cfg)
	}
	if cfg.StorageDriver != StorageMemory {
		t.Fatalf("expected memory storage by default, got %s", cfg.StorageDriver)
	}
	if cfg.Development() {
		t.Fatal("default environment must not be development")
	}
}
