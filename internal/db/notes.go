package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mkgstf/DocRP-Backend/internal/models"
)

// noteColumns is the standard column list for note queries.
const noteColumns = `id, doctor_id, patient_id, appointment_id, title, content, category, created_at, updated_at`

// scanNote scans a row into a Note struct.
func scanNote(row pgx.Row) (*models.Note, error) {
	var n models.Note
	err := row.Scan(
		&n.ID,
		&n.DoctorID,
		&n.PatientID,
		&n.AppointmentID,
		&n.Title,
		&n.Content,
		&n.Category,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// CreateNote inserts a note and its tag assignments in one transaction.
func (d *DB) CreateNote(ctx context.Context, n *models.Note, tagIDs []uuid.UUID) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO notes (doctor_id, patient_id, appointment_id, title, content, category)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRow(ctx, query,
		n.DoctorID,
		n.PatientID,
		n.AppointmentID,
		n.Title,
		n.Content,
		n.Category,
	).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return err
	}

	for _, tagID := range tagIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO note_tags (note_id, tag_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, n.ID, tagID); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	tags, err := d.getNoteTags(ctx, n.ID)
	if err != nil {
		return err
	}
	n.Tags = tags
	return nil
}

// GetNote retrieves a note with its tags, scoped to the owning doctor.
func (d *DB) GetNote(ctx context.Context, id, doctorID uuid.UUID) (*models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1 AND doctor_id = $2`
	n, err := scanNote(d.Pool.QueryRow(ctx, query, id, doctorID))
	if err != nil {
		return nil, err
	}

	tags, err := d.getNoteTags(ctx, n.ID)
	if err != nil {
		return nil, err
	}
	n.Tags = tags
	return n, nil
}

func (d *DB) getNoteTags(ctx context.Context, noteID uuid.UUID) ([]models.Tag, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT t.id, t.name, t.color, t.created_at
		FROM note_tags nt
		JOIN tags t ON t.id = nt.tag_id
		WHERE nt.note_id = $1
		ORDER BY t.name ASC
	`, noteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// ListNotes returns a doctor's notes, optionally filtered by patient and
// category, newest first. Tags are not loaded.
func (d *DB) ListNotes(ctx context.Context, doctorID uuid.UUID, patientID *uuid.UUID, category string, limit, offset int) ([]models.Note, int64, error) {
	var total int64
	countQuery := `
		SELECT COUNT(*) FROM notes
		WHERE doctor_id = $1
			AND ($2::uuid IS NULL OR patient_id = $2)
			AND ($3::text = '' OR category = $3)
	`
	if err := d.Pool.QueryRow(ctx, countQuery, doctorID, patientID, category).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + noteColumns + `
		FROM notes
		WHERE doctor_id = $1
			AND ($2::uuid IS NULL OR patient_id = $2)
			AND ($3::text = '' OR category = $3)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`
	rows, err := d.Pool.Query(ctx, query, doctorID, patientID, category, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(
			&n.ID,
			&n.DoctorID,
			&n.PatientID,
			&n.AppointmentID,
			&n.Title,
			&n.Content,
			&n.Category,
			&n.CreatedAt,
			&n.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		notes = append(notes, n)
	}
	return notes, total, rows.Err()
}

// UpdateNote updates a note's content and replaces its tag assignments,
// scoped to the owning doctor.
func (d *DB) UpdateNote(ctx context.Context, n *models.Note, tagIDs []uuid.UUID) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE notes
		SET title = $1, content = $2, category = $3, updated_at = NOW()
		WHERE id = $4 AND doctor_id = $5
		RETURNING updated_at
	`
	err = tx.QueryRow(ctx, query, n.Title, n.Content, n.Category, n.ID, n.DoctorID).Scan(&n.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNoteNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM note_tags WHERE note_id = $1`, n.ID); err != nil {
		return err
	}
	for _, tagID := range tagIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO note_tags (note_id, tag_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, n.ID, tagID); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	tags, err := d.getNoteTags(ctx, n.ID)
	if err != nil {
		return err
	}
	n.Tags = tags
	return nil
}

// DeleteNote deletes a note, scoped to the owning doctor.
func (d *DB) DeleteNote(ctx context.Context, id, doctorID uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM notes WHERE id = $1 AND doctor_id = $2`, id, doctorID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// CreateTag inserts a new tag.
func (d *DB) CreateTag(ctx context.Context, t *models.Tag) error {
	err := d.Pool.QueryRow(ctx, `
		INSERT INTO tags (name, color) VALUES ($1, $2)
		RETURNING id, created_at
	`, t.Name, t.Color).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateTag
		}
		return err
	}
	return nil
}

// ListTags returns all tags ordered by name.
func (d *DB) ListTags(ctx context.Context) ([]models.Tag, error) {
	rows, err := d.Pool.Query(ctx, `SELECT id, name, color, created_at FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
