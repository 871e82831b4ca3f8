package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const fillColumns = `id, run_id, url, platform, success, filled_fields, resume_uploaded,
	late_fields, dropped_fields, error, created_at, completed_at`

// RecordFill stores the outcome of a fill's synchronous phase.
func (db *DB) RecordFill(ctx context.Context, in FillInput) (*FillRecord, error) {
	platform := in.Platform
	if platform == "" {
		platform = "unknown"
	}
	row := db.pool.QueryRow(ctx,
		`INSERT INTO fill_runs (run_id, url, platform, success, filled_fields, resume_uploaded, error)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+fillColumns,
		in.runUUID(), in.URL, platform, in.Success, in.FilledFields, in.ResumeUploaded, nullableString(in.Error),
	)
	rec, err := scanFill(row)
	if err != nil {
		return nil, fmt.Errorf("failed to record fill: %w", err)
	}
	return rec, nil
}

// CompleteFill records what the async tiers and rescans did once the run drained.
func (db *DB) CompleteFill(ctx context.Context, runID string, lateFields, droppedFields int) error {
	id, err := uuid.Parse(runID)
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", runID, err)
	}
	tag, err := db.pool.Exec(ctx,
		`UPDATE fill_runs SET late_fields = $1, dropped_fields = $2, completed_at = NOW()
		 WHERE run_id = $3`,
		lateFields, droppedFields, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete fill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("fill %s not found", runID)
	}
	return nil
}

// GetFill retrieves a fill by run id. It returns nil when no such fill exists.
func (db *DB) GetFill(ctx context.Context, runID uuid.UUID) (*FillRecord, error) {
	row := db.pool.QueryRow(ctx, `SELECT `+fillColumns+` FROM fill_runs WHERE run_id = $1`, runID)
	rec, err := scanFill(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get fill: %w", err)
	}
	return rec, nil
}

// ListFills retrieves the most recent fills, newest first.
func (db *DB) ListFills(ctx context.Context, limit int) ([]FillRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+fillColumns+` FROM fill_runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list fills: %w", err)
	}
	defer rows.Close()

	var fills []FillRecord
	for rows.Next() {
		rec, err := scanFill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fill: %w", err)
		}
		fills = append(fills, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list fills: %w", err)
	}
	return fills, nil
}

func scanFill(row pgx.Row) (*FillRecord, error) {
	var rec FillRecord
	err := row.Scan(&rec.ID, &rec.RunID, &rec.URL, &rec.Platform, &rec.Success, &rec.FilledFields,
		&rec.ResumeUploaded, &rec.LateFields, &rec.DroppedFields, &rec.Error, &rec.CreatedAt, &rec.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
