package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mkgstf/DocRP-Backend/internal/models"
)

// medicineColumns is the standard column list for medicine queries.
const medicineColumns = `id, name, description, dosage_form, strength, manufacturer, created_at, updated_at`

// scanMedicine scans a row into a Medicine struct.
func scanMedicine(row pgx.Row) (*models.Medicine, error) {
	var m models.Medicine
	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Description,
		&m.DosageForm,
		&m.Strength,
		&m.Manufacturer,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMedicineNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// scanMedicines scans multiple rows into a slice of Medicines.
func scanMedicines(rows pgx.Rows) ([]models.Medicine, error) {
	defer rows.Close()

	var medicines []models.Medicine
	for rows.Next() {
		var m models.Medicine
		if err := rows.Scan(
			&m.ID,
			&m.Name,
			&m.Description,
			&m.DosageForm,
			&m.Strength,
			&m.Manufacturer,
			&m.CreatedAt,
			&m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		medicines = append(medicines, m)
	}

	return medicines, rows.Err()
}

// CreateMedicine inserts a new catalog medicine.
func (d *DB) CreateMedicine(ctx context.Context, m *models.Medicine) error {
	query := `
		INSERT INTO medicines (name, description, dosage_form, strength, manufacturer)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := d.Pool.QueryRow(ctx, query,
		m.Name,
		m.Description,
		m.DosageForm,
		m.Strength,
		m.Manufacturer,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateMedicine
		}
		return err
	}

	return nil
}

// GetMedicineByID retrieves a medicine by ID.
func (d *DB) GetMedicineByID(ctx context.Context, id uuid.UUID) (*models.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines WHERE id = $1`
	return scanMedicine(d.Pool.QueryRow(ctx, query, id))
}

// ListMedicines returns catalog medicines, optionally filtered by a
// case-insensitive fragment of name, description, or manufacturer.
func (d *DB) ListMedicines(ctx context.Context, search string, limit, offset int) ([]models.Medicine, int64, error) {
	pattern := "%" + search + "%"

	var total int64
	countQuery := `
		SELECT COUNT(*) FROM medicines
		WHERE $1::text = '' OR name ILIKE $2 OR description ILIKE $2 OR manufacturer ILIKE $2
	`
	if err := d.Pool.QueryRow(ctx, countQuery, search, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + medicineColumns + `
		FROM medicines
		WHERE $1::text = '' OR name ILIKE $2 OR description ILIKE $2 OR manufacturer ILIKE $2
		ORDER BY name ASC
		LIMIT $3 OFFSET $4
	`
	rows, err := d.Pool.Query(ctx, query, search, pattern, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	medicines, err := scanMedicines(rows)
	return medicines, total, err
}

// UpdateMedicine updates a catalog medicine.
func (d *DB) UpdateMedicine(ctx context.Context, m *models.Medicine) error {
	query := `
		UPDATE medicines
		SET name = $1, description = $2, dosage_form = $3, strength = $4, manufacturer = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`
	err := d.Pool.QueryRow(ctx, query,
		m.Name,
		m.Description,
		m.DosageForm,
		m.Strength,
		m.Manufacturer,
		m.ID,
	).Scan(&m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrMedicineNotFound
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateMedicine
		}
		return err
	}
	return nil
}

// DeleteMedicine deletes a catalog medicine. Fails if the medicine is
// referenced by prescription items (foreign key).
func (d *DB) DeleteMedicine(ctx context.Context, id uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM medicines WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrMedicineNotFound
	}
	return nil
}
