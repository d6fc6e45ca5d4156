package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/nicholasnucifora/spotify-filterer/internal/models"
	"github.com/nicholasnucifora/spotify-filterer/internal/shared"
)

// RunRepository implements [models.Repository] for [models.FilterRun] persistence.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new [RunRepository] with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new filter run with a generated ID and sequence.
func (r *RunRepository) Create(run *models.FilterRun) error {
	sequence, err := NextSequence(r.db, "filter_runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	if run.RunID == "" {
		run.RunID = shared.GenerateID()
	}
	run.Sequence = sequence

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO filter_runs (
			id, sequence, playlist_id, playlist_name,
			unavailable_count, exact_count, fuzzy_count, internal_count,
			removed_count, unique_count, failed_count, warning_count,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		run.RunID, run.Sequence, run.PlaylistID, run.PlaylistName,
		run.Unavailable, run.Exact, run.Fuzzy, run.Internal,
		run.Removed, run.UniqueTracks, run.Failed, run.Warnings,
		run.Created, run.Updated)
	if err != nil {
		return fmt.Errorf("failed to insert filter run: %w", err)
	}

	return nil
}

// Get retrieves a filter run by ID.
func (r *RunRepository) Get(id string) (*models.FilterRun, error) {
	query := `
		SELECT id, sequence, playlist_id, playlist_name,
			unavailable_count, exact_count, fuzzy_count, internal_count,
			removed_count, unique_count, failed_count, warning_count,
			created_at, updated_at
		FROM filter_runs
		WHERE id = ?
	`

	run, err := scanRun(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("filter run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query filter run: %w", err)
	}

	return run, nil
}

// Update modifies an existing filter run's counts.
func (r *RunRepository) Update(run *models.FilterRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()
	run.Updated = now

	query := `
		UPDATE filter_runs
		SET playlist_name = ?,
			unavailable_count = ?, exact_count = ?, fuzzy_count = ?, internal_count = ?,
			removed_count = ?, unique_count = ?, failed_count = ?, warning_count = ?,
			updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		run.PlaylistName,
		run.Unavailable, run.Exact, run.Fuzzy, run.Internal,
		run.Removed, run.UniqueTracks, run.Failed, run.Warnings,
		now, run.RunID)
	if err != nil {
		return fmt.Errorf("failed to update filter run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("filter run not found: %s", run.RunID)
	}

	return nil
}

// Delete removes a filter run by ID. Run history has no soft-delete: a
// deleted run is gone.
func (r *RunRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM filter_runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete filter run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("filter run not found: %s", id)
	}

	return nil
}

// List retrieves filter runs matching the given criteria, most recent first.
//
// Supported criteria: "playlist_id" (string) and "limit" (int).
func (r *RunRepository) List(criteria map[string]any) ([]*models.FilterRun, error) {
	query := `
		SELECT id, sequence, playlist_id, playlist_name,
			unavailable_count, exact_count, fuzzy_count, internal_count,
			removed_count, unique_count, failed_count, warning_count,
			created_at, updated_at
		FROM filter_runs
		WHERE 1 = 1
	`

	args := []any{}

	if playlistID, ok := criteria["playlist_id"].(string); ok && playlistID != "" {
		query += " AND playlist_id = ?"
		args = append(args, playlistID)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query filter runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.FilterRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan filter run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*models.FilterRun, error) {
	var run models.FilterRun

	err := s.Scan(
		&run.RunID, &run.Sequence, &run.PlaylistID, &run.PlaylistName,
		&run.Unavailable, &run.Exact, &run.Fuzzy, &run.Internal,
		&run.Removed, &run.UniqueTracks, &run.Failed, &run.Warnings,
		&run.Created, &run.Updated)
	if err != nil {
		return nil, err
	}

	return &run, nil
}
