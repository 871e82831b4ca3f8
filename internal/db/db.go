// Package db provides PostgreSQL storage for fill history.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the tables the store writes to.
const Schema = `
CREATE TABLE IF NOT EXISTS fill_runs (
	id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	run_id          UUID NOT NULL UNIQUE,
	url             TEXT NOT NULL DEFAULT '',
	platform        TEXT NOT NULL DEFAULT 'unknown',
	success         BOOLEAN NOT NULL,
	filled_fields   INTEGER NOT NULL DEFAULT 0,
	resume_uploaded BOOLEAN NOT NULL DEFAULT FALSE,
	late_fields     INTEGER,
	dropped_fields  INTEGER,
	error           TEXT,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	completed_at    TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS fill_runs_created_at_idx ON fill_runs (created_at DESC);
`

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// EnsureSchema creates the fill history tables when they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}
