package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"estimate-workers/internal/common/config"

	_ "github.com/lib/pq"
)

type PostgresClient struct {
	DB *sql.DB
}

func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// schemaStatements are applied in order by EnsureSchema. All are idempotent.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS rate_cards (
		region       TEXT NOT NULL,
		designation  TEXT NOT NULL,
		hourly_rate  NUMERIC(14,2) NOT NULL CHECK (hourly_rate >= 0),
		currency     TEXT NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (region, designation)
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id        TEXT PRIMARY KEY,
		owner_id  TEXT NOT NULL,
		name      TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS costing_summaries (
		id              UUID NOT NULL,
		project_id      TEXT NOT NULL REFERENCES projects(id),
		version         INTEGER NOT NULL,
		currency        TEXT NOT NULL,
		summary         JSONB NOT NULL,
		calculated_by   TEXT NOT NULL,
		calculated_at   TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (project_id, version)
	)`,
}

// EnsureSchema creates the tables the costing workers read and write.
func (c *PostgresClient) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := c.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
