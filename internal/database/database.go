package database

import (
	"context"
	"fmt"
	"time"

	"recipebook/internal/config"
	"recipebook/internal/repository"
	"recipebook/internal/repository/sqlite"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// NewPool creates a new PostgreSQL connection pool.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// Configure pool settings
	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = time.Duration(cfg.MaxConnLifetime) * time.Second
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Int("max_connections", cfg.MaxConnections).
		Int("min_connections", cfg.MinConnections).
		Msg("creating database connection pool")

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Msg("database connection pool created successfully")

	return pool, nil
}

// OpenStore opens the catalog store selected by cfg.Driver, creating its
// schema if needed. The returned close function discards pending changes and
// releases the underlying connections.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (repository.CatalogStore, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := NewPool(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}

		if err := repository.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
		}

		store := repository.NewCatalogRepository(pool, logger)
		closeFn := func() {
			if err := store.Discard(context.Background()); err != nil {
				logger.Error().Err(err).Msg("failed to discard pending changes")
			}
			pool.Close()
		}
		return store, closeFn, nil

	case config.DriverSQLite:
		logger.Info().Str("path", cfg.Path).Msg("opening sqlite catalog")

		db, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, nil, err
		}

		store, err := sqlite.New(db, logger)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		closeFn := func() {
			if err := store.Close(); err != nil {
				logger.Error().Err(err).Msg("failed to close sqlite catalog")
			}
		}
		return store, closeFn, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}
