package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Lualttt/Pipe-Bomb-Server/internal/models"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/shared"
)

// ResolutionRepository implements models.Repository[*models.Resolution] for the resolution journal.
//
// The resolver appends one row per outcome (match or confirmed absence); rows are
// never read back on the resolve path, only by the journal CLI commands.
type ResolutionRepository struct {
	db *sql.DB
}

// NewResolutionRepository creates a new ResolutionRepository with the given database connection
func NewResolutionRepository(db *sql.DB) *ResolutionRepository {
	return &ResolutionRepository{db: db}
}

// Create inserts a new [models.Resolution] into the database with generated ID and sequence
func (r *ResolutionRepository) Create(ctx context.Context, res *models.Resolution) error {
	sequence, err := NextSequence(r.db, "resolutions")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	res.SetID(id)
	res.SetSequence(sequence)

	if err := res.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO resolutions (id, sequence, canonical_id, query, matched, spotify_id, spotify_title, duration_delta, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		id,
		sequence,
		res.CanonicalID(),
		res.Query(),
		res.Matched(),
		res.SpotifyID(),
		res.SpotifyTitle(),
		res.DurationDelta(),
		res.CreatedAt(),
		res.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert resolution: %w", err)
	}

	return nil
}

// Get retrieves a resolution by ID, excluding soft-deleted rows
func (r *ResolutionRepository) Get(ctx context.Context, id string) (*models.Resolution, error) {
	query := `
		SELECT id, sequence, canonical_id, query, matched, spotify_id, spotify_title, duration_delta, created_at, updated_at, deleted_at
		FROM resolutions
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// Update modifies an existing resolution in the database
func (r *ResolutionRepository) Update(ctx context.Context, res *models.Resolution) error {
	if err := res.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	res.SetUpdatedAt(now)

	query := `
		UPDATE resolutions
		SET matched = ?, spotify_id = ?, spotify_title = ?, duration_delta = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		res.Matched(),
		res.SpotifyID(),
		res.SpotifyTitle(),
		res.DurationDelta(),
		now,
		res.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update resolution: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("resolution not found or already deleted: %s", res.ID())
	}

	return nil
}

// Delete soft-deletes a resolution by ID
func (r *ResolutionRepository) Delete(ctx context.Context, id string) error {
	now := time.Now()

	query := `
		UPDATE resolutions
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete resolution: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("resolution not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all resolutions matching the given criteria, excluding soft-deleted rows.
//
// Supported criteria: "canonical_id" (string), "matched" (bool), "limit" (int).
// Results are ordered newest first so journal listings read like a log tail.
func (r *ResolutionRepository) List(ctx context.Context, criteria map[string]any) ([]*models.Resolution, error) {
	query := `
		SELECT id, sequence, canonical_id, query, matched, spotify_id, spotify_title, duration_delta, created_at, updated_at, deleted_at
		FROM resolutions
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if canonicalID, ok := criteria["canonical_id"].(string); ok && canonicalID != "" {
		query += " AND canonical_id = ?"
		args = append(args, canonicalID)
	}

	if matched, ok := criteria["matched"].(bool); ok {
		query += " AND matched = ?"
		args = append(args, matched)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query resolutions: %w", err)
	}
	defer rows.Close()

	var resolutions []*models.Resolution
	for rows.Next() {
		res, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		resolutions = append(resolutions, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return resolutions, nil
}

// ResolutionStats aggregates journal contents for reporting.
type ResolutionStats struct {
	Total     int     `json:"total"`
	Matched   int     `json:"matched"`
	Unmatched int     `json:"unmatched"`
	AvgDelta  float64 `json:"avgDurationDelta"`
}

// Stats computes match counts and the mean duration delta across accepted matches
func (r *ResolutionRepository) Stats(ctx context.Context) (*ResolutionStats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(matched), 0),
			COALESCE(AVG(CASE WHEN matched = 1 THEN duration_delta END), 0)
		FROM resolutions
		WHERE deleted_at IS NULL
	`

	stats := &ResolutionStats{}
	err := r.db.QueryRowContext(ctx, query).Scan(&stats.Total, &stats.Matched, &stats.AvgDelta)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}

	stats.Unmatched = stats.Total - stats.Matched
	return stats, nil
}

// scanOne scans a single [sql.Row] into a [models.Resolution]
func (r *ResolutionRepository) scanOne(row *sql.Row) (*models.Resolution, error) {
	var (
		id            string
		sequence      int
		canonicalID   string
		queryText     string
		matched       bool
		spotifyID     string
		spotifyTitle  string
		durationDelta float64
		createdAt     time.Time
		updatedAt     time.Time
		deletedAt     sql.NullTime
	)

	err := row.Scan(&id, &sequence, &canonicalID, &queryText, &matched, &spotifyID, &spotifyTitle, &durationDelta, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("resolution not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan resolution: %w", err)
	}

	res := models.NewResolution(canonicalID, queryText)
	if matched {
		res.RecordMatch(spotifyID, spotifyTitle, durationDelta)
	}
	res.SetID(id)
	res.SetSequence(sequence)
	res.SetCreatedAt(createdAt)
	res.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		res.SetDeletedAt(&deletedAt.Time)
	}

	return res, nil
}

// scanRow scans a row from [sql.Rows] into a [models.Resolution]
func (r *ResolutionRepository) scanRow(rows *sql.Rows) (*models.Resolution, error) {
	var (
		id            string
		sequence      int
		canonicalID   string
		queryText     string
		matched       bool
		spotifyID     string
		spotifyTitle  string
		durationDelta float64
		createdAt     time.Time
		updatedAt     time.Time
		deletedAt     sql.NullTime
	)

	err := rows.Scan(&id, &sequence, &canonicalID, &queryText, &matched, &spotifyID, &spotifyTitle, &durationDelta, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan resolution: %w", err)
	}

	res := models.NewResolution(canonicalID, queryText)
	if matched {
		res.RecordMatch(spotifyID, spotifyTitle, durationDelta)
	}
	res.SetID(id)
	res.SetSequence(sequence)
	res.SetCreatedAt(createdAt)
	res.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		res.SetDeletedAt(&deletedAt.Time)
	}

	return res, nil
}
