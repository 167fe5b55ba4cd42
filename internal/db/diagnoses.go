package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mkgstf/DocRP-Backend/internal/models"
)

// diagnosisColumns is the standard column list for diagnosis queries.
const diagnosisColumns = `id, name, description, icd_code, category, created_at, updated_at`

// scanDiagnosis scans a row into a Diagnosis struct.
func scanDiagnosis(row pgx.Row) (*models.Diagnosis, error) {
	var dg models.Diagnosis
	err := row.Scan(
		&dg.ID,
		&dg.Name,
		&dg.Description,
		&dg.ICDCode,
		&dg.Category,
		&dg.CreatedAt,
		&dg.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDiagnosisNotFound
	}
	if err != nil {
		return nil, err
	}
	return &dg, nil
}

// scanDiagnoses scans multiple rows into a slice of Diagnoses.
func scanDiagnoses(rows pgx.Rows) ([]models.Diagnosis, error) {
	defer rows.Close()

	var diagnoses []models.Diagnosis
	for rows.Next() {
		var dg models.Diagnosis
		if err := rows.Scan(
			&dg.ID,
			&dg.Name,
			&dg.Description,
			&dg.ICDCode,
			&dg.Category,
			&dg.CreatedAt,
			&dg.UpdatedAt,
		); err != nil {
			return nil, err
		}
		diagnoses = append(diagnoses, dg)
	}

	return diagnoses, rows.Err()
}

// CreateDiagnosis inserts a new catalog diagnosis.
func (d *DB) CreateDiagnosis(ctx context.Context, dg *models.Diagnosis) error {
	query := `
		INSERT INTO diagnoses (name, description, icd_code, category)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := d.Pool.QueryRow(ctx, query,
		dg.Name,
		dg.Description,
		dg.ICDCode,
		dg.Category,
	).Scan(&dg.ID, &dg.CreatedAt, &dg.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateDiagnosis
		}
		return err
	}

	return nil
}

// GetDiagnosisByID retrieves a diagnosis by ID.
func (d *DB) GetDiagnosisByID(ctx context.Context, id uuid.UUID) (*models.Diagnosis, error) {
	query := `SELECT ` + diagnosisColumns + ` FROM diagnoses WHERE id = $1`
	return scanDiagnosis(d.Pool.QueryRow(ctx, query, id))
}

// ListDiagnoses returns catalog diagnoses, optionally filtered by a
// case-insensitive fragment of name, description, or ICD code.
func (d *DB) ListDiagnoses(ctx context.Context, search string, limit, offset int) ([]models.Diagnosis, int64, error) {
	pattern := "%" + search + "%"

	var total int64
	countQuery := `
		SELECT COUNT(*) FROM diagnoses
		WHERE $1::text = '' OR name ILIKE $2 OR description ILIKE $2 OR icd_code ILIKE $2
	`
	if err := d.Pool.QueryRow(ctx, countQuery, search, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + diagnosisColumns + `
		FROM diagnoses
		WHERE $1::text = '' OR name ILIKE $2 OR description ILIKE $2 OR icd_code ILIKE $2
		ORDER BY name ASC
		LIMIT $3 OFFSET $4
	`
	rows, err := d.Pool.Query(ctx, query, search, pattern, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	diagnoses, err := scanDiagnoses(rows)
	return diagnoses, total, err
}

// UpdateDiagnosis updates a catalog diagnosis.
func (d *DB) UpdateDiagnosis(ctx context.Context, dg *models.Diagnosis) error {
	query := `
		UPDATE diagnoses
		SET name = $1, description = $2, icd_code = $3, category = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`
	err := d.Pool.QueryRow(ctx, query,
		dg.Name,
		dg.Description,
		dg.ICDCode,
		dg.Category,
		dg.ID,
	).Scan(&dg.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDiagnosisNotFound
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateDiagnosis
		}
		return err
	}
	return nil
}

// DeleteDiagnosis deletes a catalog diagnosis. Fails if the diagnosis is
// assigned to any patient (foreign key).
func (d *DB) DeleteDiagnosis(ctx context.Context, id uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM diagnoses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrDiagnosisNotFound
	}
	return nil
}

// AddPatientDiagnosis assigns a diagnosis to a patient.
func (d *DB) AddPatientDiagnosis(ctx context.Context, pd *models.PatientDiagnosis) error {
	query := `
		INSERT INTO patient_diagnoses (patient_id, diagnosis_id, prescription_id, date_diagnosed, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	status := pd.Status
	if status == "" {
		status = models.DiagnosisActive
	}

	err := d.Pool.QueryRow(ctx, query,
		pd.PatientID,
		pd.DiagnosisID,
		pd.PrescriptionID,
		pd.DateDiagnosed,
		status,
		pd.Notes,
	).Scan(&pd.ID, &pd.CreatedAt, &pd.UpdatedAt)
	if err != nil {
		return err
	}

	pd.Status = status
	return nil
}

// GetPatientDiagnoses returns a patient's diagnosis assignments, newest first.
func (d *DB) GetPatientDiagnoses(ctx context.Context, patientID uuid.UUID) ([]models.PatientDiagnosis, error) {
	query := `
		SELECT pd.id, pd.patient_id, pd.diagnosis_id, pd.prescription_id,
			pd.date_diagnosed, pd.status, pd.notes, pd.created_at, pd.updated_at,
			dg.name
		FROM patient_diagnoses pd
		JOIN diagnoses dg ON dg.id = pd.diagnosis_id
		WHERE pd.patient_id = $1
		ORDER BY pd.date_diagnosed DESC, pd.created_at DESC
	`
	rows, err := d.Pool.Query(ctx, query, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.PatientDiagnosis
	for rows.Next() {
		var pd models.PatientDiagnosis
		if err := rows.Scan(
			&pd.ID,
			&pd.PatientID,
			&pd.DiagnosisID,
			&pd.PrescriptionID,
			&pd.DateDiagnosed,
			&pd.Status,
			&pd.Notes,
			&pd.CreatedAt,
			&pd.UpdatedAt,
			&pd.DiagnosisName,
		); err != nil {
			return nil, err
		}
		result = append(result, pd)
	}
	return result, rows.Err()
}

// UpdatePatientDiagnosis updates the status and notes of a diagnosis assignment.
func (d *DB) UpdatePatientDiagnosis(ctx context.Context, pd *models.PatientDiagnosis) error {
	query := `
		UPDATE patient_diagnoses
		SET status = $1, notes = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`
	err := d.Pool.QueryRow(ctx, query, pd.Status, pd.Notes, pd.ID).Scan(&pd.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrPatientDiagnosisNotFound
	}
	return err
}

// DeletePatientDiagnosis removes a diagnosis assignment from a patient.
func (d *DB) DeletePatientDiagnosis(ctx context.Context, id uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM patient_diagnoses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrPatientDiagnosisNotFound
	}
	return nil
}
