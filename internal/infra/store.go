package infra

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"cfohelper/configs"
	"cfohelper/internal/database"
	"cfohelper/internal/domain"
	"cfohelper/internal/repository"
)

// OpenAccountRepository opens the account store selected by cfg.Driver
func OpenAccountRepository(ctx context.Context, cfg configs.StoreConfig, logger *zap.Logger) (domain.AccountRepository, error) {
	switch cfg.Driver {
	case configs.DriverPostgres:
		pool, err := NewDatabase(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(ctx, pool, logger); err != nil {
			pool.Close()
			return nil, err
		}
		return repository.NewPostgresAccountRepository(pool), nil

	case configs.DriverSQLite:
		repo, err := repository.OpenSQLiteAccountRepository(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info("[OK] SQLite store opened", zap.String("path", cfg.SQLitePath))
		return repo, nil

	case configs.DriverMemory, "":
		logger.Warn("Using in-memory store, accounts are lost on restart")
		return repository.NewMemoryAccountRepository(), nil
	}

	return nil, fmt.Errorf("unknown STORE_DRIVER %q (want postgres, sqlite or memory)", cfg.Driver)
}
