package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mkgstf/DocRP-Backend/internal/models"
)

// doctorColumns is the standard column list for doctor queries.
const doctorColumns = `id, email, username, password_hash, first_name, last_name,
	specialization, phone, active, created_at, updated_at`

// scanDoctor scans a row into a Doctor struct.
func scanDoctor(row pgx.Row) (*models.Doctor, error) {
	var doc models.Doctor
	err := row.Scan(
		&doc.ID,
		&doc.Email,
		&doc.Username,
		&doc.PasswordHash,
		&doc.FirstName,
		&doc.LastName,
		&doc.Specialization,
		&doc.Phone,
		&doc.Active,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDoctorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// CreateDoctor inserts a new doctor account.
func (d *DB) CreateDoctor(ctx context.Context, doc *models.Doctor) error {
	query := `
		INSERT INTO doctors (email, username, password_hash, first_name, last_name, specialization, phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, active, created_at, updated_at
	`

	err := d.Pool.QueryRow(ctx, query,
		doc.Email,
		doc.Username,
		doc.PasswordHash,
		doc.FirstName,
		doc.LastName,
		doc.Specialization,
		doc.Phone,
	).Scan(&doc.ID, &doc.Active, &doc.CreatedAt, &doc.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateDoctor
		}
		return err
	}

	return nil
}

// GetDoctorByID retrieves a doctor by ID.
func (d *DB) GetDoctorByID(ctx context.Context, id uuid.UUID) (*models.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE id = $1`
	return scanDoctor(d.Pool.QueryRow(ctx, query, id))
}

// GetDoctorByUsername retrieves a doctor by username.
func (d *DB) GetDoctorByUsername(ctx context.Context, username string) (*models.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE username = $1`
	return scanDoctor(d.Pool.QueryRow(ctx, query, username))
}

// UpdateDoctorProfile updates a doctor's mutable profile fields.
func (d *DB) UpdateDoctorProfile(ctx context.Context, doc *models.Doctor) error {
	query := `
		UPDATE doctors
		SET email = $1, first_name = $2, last_name = $3, specialization = $4, phone = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`
	err := d.Pool.QueryRow(ctx, query,
		doc.Email,
		doc.FirstName,
		doc.LastName,
		doc.Specialization,
		doc.Phone,
		doc.ID,
	).Scan(&doc.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDoctorNotFound
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateDoctor
		}
		return err
	}
	return nil
}
