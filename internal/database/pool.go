// Package database builds the pgx connection pool and applies embedded
// schema migrations on startup.
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"fabric-artifact-manager/internal/config"
	"fabric-artifact-manager/internal/database/migrations"
)

// Connect creates the connection pool, verifies connectivity and brings the
// schema up to date.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}
	poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := migrateUp(poolCfg); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// migrateUp runs migrations over a short-lived database/sql handle; the
// migrate tooling wants *sql.DB, not a pgx pool.
func migrateUp(poolCfg *pgxpool.Config) error {
	db := stdlib.OpenDB(*poolCfg.ConnConfig)
	defer db.Close()

	if err := migrations.MigrateUp(db); err != nil {
		return err
	}
	return nil
}
