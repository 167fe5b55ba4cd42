package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mkgstf/DocRP-Backend/internal/lookup"
	"github.com/mkgstf/DocRP-Backend/internal/models"
)

// lookupColumns is the standard column list for lookup entry queries.
const lookupColumns = `id, kind, text, usage_count, created_at`

// searchCandidateCap bounds how many candidate rows a substring search
// fetches. The caller re-ranks candidates into prefix and substring tiers,
// so it needs the best candidates rather than every match.
const searchCandidateCap = 200

// scanLookupEntry scans a row into a LookupEntry struct.
func scanLookupEntry(row pgx.Row) (*models.LookupEntry, error) {
	var e models.LookupEntry
	err := row.Scan(&e.ID, &e.Kind, &e.Text, &e.UsageCount, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLookupEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// scanLookupEntries scans multiple rows into a slice of LookupEntries.
func scanLookupEntries(rows pgx.Rows) ([]models.LookupEntry, error) {
	defer rows.Close()

	var entries []models.LookupEntry
	for rows.Next() {
		var e models.LookupEntry
		if err := rows.Scan(&e.ID, &e.Kind, &e.Text, &e.UsageCount, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// SearchLookupEntries returns entries of a kind whose normalized text
// contains the normalized query, ordered by usage count descending then
// text ascending. POSITION is used instead of LIKE so query text never
// acts as a pattern.
func (d *DB) SearchLookupEntries(ctx context.Context, kind, normalized string) ([]models.LookupEntry, error) {
	query := `
		SELECT ` + lookupColumns + `
		FROM lookup_entries
		WHERE kind = $1 AND POSITION($2 IN normalized_text) > 0
		ORDER BY usage_count DESC, text ASC
		LIMIT $3
	`
	rows, err := d.Pool.Query(ctx, query, kind, normalized, searchCandidateCap)
	if err != nil {
		return nil, err
	}
	return scanLookupEntries(rows)
}

// TopLookupEntries returns the most used entries of a kind, ties broken by
// text ascending.
func (d *DB) TopLookupEntries(ctx context.Context, kind string, limit int) ([]models.LookupEntry, error) {
	query := `
		SELECT ` + lookupColumns + `
		FROM lookup_entries
		WHERE kind = $1
		ORDER BY usage_count DESC, text ASC
		LIMIT $2
	`
	rows, err := d.Pool.Query(ctx, query, kind, limit)
	if err != nil {
		return nil, err
	}
	return scanLookupEntries(rows)
}

// InsertLookupEntryIfAbsent inserts an entry with the given display text,
// or returns the existing entry with the same kind and normalized text.
// The unique index on (kind, normalized_text) makes this safe under
// concurrent insertion: losers of the race fall through to the re-read.
func (d *DB) InsertLookupEntryIfAbsent(ctx context.Context, kind, text, normalized string) (*models.LookupEntry, bool, error) {
	insert := `
		INSERT INTO lookup_entries (kind, text, normalized_text)
		VALUES ($1, $2, $3)
		ON CONFLICT (kind, normalized_text) DO NOTHING
		RETURNING ` + lookupColumns + `
	`
	e, err := scanLookupEntry(d.Pool.QueryRow(ctx, insert, kind, text, normalized))
	if err == nil {
		return e, true, nil
	}
	if !errors.Is(err, ErrLookupEntryNotFound) {
		return nil, false, err
	}

	query := `SELECT ` + lookupColumns + ` FROM lookup_entries WHERE kind = $1 AND normalized_text = $2`
	e, err = scanLookupEntry(d.Pool.QueryRow(ctx, query, kind, normalized))
	if err != nil {
		return nil, false, err
	}
	return e, false, nil
}

// IncrementLookupUsage bumps an entry's usage count by one.
func (d *DB) IncrementLookupUsage(ctx context.Context, id uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `
		UPDATE lookup_entries SET usage_count = usage_count + 1 WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrLookupEntryNotFound
	}
	return nil
}

// GetLookupEntry retrieves an entry by ID.
func (d *DB) GetLookupEntry(ctx context.Context, id uuid.UUID) (*models.LookupEntry, error) {
	query := `SELECT ` + lookupColumns + ` FROM lookup_entries WHERE id = $1`
	return scanLookupEntry(d.Pool.QueryRow(ctx, query, id))
}

// LookupUsageByKind aggregates entry and selection counts per kind, for the
// metrics collector.
func (d *DB) LookupUsageByKind(ctx context.Context) ([]models.LookupKindUsage, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT kind, COUNT(*), COALESCE(SUM(usage_count), 0)
		FROM lookup_entries
		GROUP BY kind
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usage []models.LookupKindUsage
	for rows.Next() {
		var u models.LookupKindUsage
		if err := rows.Scan(&u.Kind, &u.Entries, &u.TotalUsage); err != nil {
			return nil, err
		}
		usage = append(usage, u)
	}
	return usage, rows.Err()
}

// seedLookupEntry registers a catalog name for autocomplete, ignoring
// entries that already exist.
func (d *DB) seedLookupEntry(ctx context.Context, kind, text string) error {
	_, _, err := d.InsertLookupEntryIfAbsent(ctx, kind, text, lookup.Normalize(text))
	return err
}
