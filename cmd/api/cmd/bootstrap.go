package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/geocoder89/cityevents/internal/config"
	"github.com/geocoder89/cityevents/internal/db"
	"github.com/geocoder89/cityevents/internal/observability"
	"github.com/geocoder89/cityevents/internal/repo"
	"github.com/geocoder89/cityevents/internal/repo/postgres"
	"github.com/geocoder89/cityevents/internal/repo/sqlite"
)

// loadConfig reads the environment and applies the global flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if storeDriver != "" {
		switch d := strings.ToLower(storeDriver); d {
		case config.DriverPostgres, config.DriverSQLite:
			cfg.StoreDriver = d
		default:
			return config.Config{}, fmt.Errorf("unknown --store %q", storeDriver)
		}
	}
	return cfg, nil
}

// openStore connects the configured backend. Postgres is migrated first when
// AutoMigrate is set; SQLite creates its schema on open.
func openStore(ctx context.Context, cfg config.Config, log *slog.Logger, prom *observability.Prom) (repo.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		log.Info("opening sqlite store", "dsn", cfg.SQLiteDSN)
		return sqlite.Open(ctx, cfg.SQLiteDSN, prom)
	default:
		if cfg.AutoMigrate {
			if err := db.MigrateUp(cfg.DBURL); err != nil {
				return repo.Store{}, fmt.Errorf("migrate: %w", err)
			}
			log.Info("migrations applied")
		}
		pool, err := db.NewPool(ctx, cfg.DBURL)
		if err != nil {
			return repo.Store{}, fmt.Errorf("connect postgres: %w", err)
		}
		return postgres.NewStore(pool, prom), nil
	}
}
