package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/merchstore/internal/domain"
	"github.com/vladislavdragonenkov/merchstore/internal/storage/memory"
	"github.com/vladislavdragonenkov/merchstore/internal/storage/postgres"
)

// storageDeps — собранное хранилище локального индекса заказов.
// Postgres равен nil при memory-драйвере.
type storageDeps struct {
	Records  domain.OrderRecordRepository
	Postgres *postgres.Store
}

// initStorage строит репозиторий записей заказов по выбранному драйверу.
func initStorage(ctx context.Context, cfg Config, logger *log.Entry) (*storageDeps, error) {
	switch cfg.StorageDriver {
	case StorageMemory:
		logger.Info("используется in-memory хранилище записей заказов")
		return &storageDeps{Records: memory.NewOrderRecordRepository()}, nil

	case StoragePostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if cfg.PostgresAutoMigrate {
			if err := store.MigrateUp(ctx); err != nil {
				store.Close()
				return nil, fmt.Errorf("migrate postgres: %w", err)
			}
			logger.Info("миграции postgres применены")
		}
		logger.Info("используется postgres хранилище записей заказов")
		return &storageDeps{
			Records:  postgres.NewOrderRecordRepository(store),
			Postgres: store,
		}, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStorageDriver, cfg.StorageDriver)
	}
}

// Close освобождает ресурсы хранилища.
func (d *storageDeps) Close(logger *log.Entry) {
	if d.Postgres == nil {
		return
	}
	if err := d.Postgres.Close(); err != nil {
		logger.WithError(err).Warn("failed to close postgres store")
	}
}
