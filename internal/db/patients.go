package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mkgstf/DocRP-Backend/internal/models"
)

// patientColumns is the standard column list for patient queries.
const patientColumns = `id, doctor_id, first_name, last_name, date_of_birth, gender,
	email, phone, address, medical_history, insurance_info, created_at, updated_at`

// scanPatient scans a row into a Patient struct.
func scanPatient(row pgx.Row) (*models.Patient, error) {
	var p models.Patient
	err := row.Scan(
		&p.ID,
		&p.DoctorID,
		&p.FirstName,
		&p.LastName,
		&p.DateOfBirth,
		&p.Gender,
		&p.Email,
		&p.Phone,
		&p.Address,
		&p.MedicalHistory,
		&p.InsuranceInfo,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// scanPatients scans multiple rows into a slice of Patients.
func scanPatients(rows pgx.Rows) ([]models.Patient, error) {
	defer rows.Close()

	var patients []models.Patient
	for rows.Next() {
		var p models.Patient
		if err := rows.Scan(
			&p.ID,
			&p.DoctorID,
			&p.FirstName,
			&p.LastName,
			&p.DateOfBirth,
			&p.Gender,
			&p.Email,
			&p.Phone,
			&p.Address,
			&p.MedicalHistory,
			&p.InsuranceInfo,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		patients = append(patients, p)
	}

	return patients, rows.Err()
}

// CreatePatient inserts a new patient for a doctor.
func (d *DB) CreatePatient(ctx context.Context, p *models.Patient) error {
	query := `
		INSERT INTO patients (doctor_id, first_name, last_name, date_of_birth, gender,
			email, phone, address, medical_history, insurance_info)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	return d.Pool.QueryRow(ctx, query,
		p.DoctorID,
		p.FirstName,
		p.LastName,
		p.DateOfBirth,
		p.Gender,
		p.Email,
		p.Phone,
		p.Address,
		p.MedicalHistory,
		p.InsuranceInfo,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// GetPatient retrieves a patient by ID, scoped to the owning doctor.
func (d *DB) GetPatient(ctx context.Context, id, doctorID uuid.UUID) (*models.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1 AND doctor_id = $2`
	return scanPatient(d.Pool.QueryRow(ctx, query, id, doctorID))
}

// ListPatients returns a doctor's patients, optionally filtered by a
// case-insensitive name fragment, newest first.
func (d *DB) ListPatients(ctx context.Context, doctorID uuid.UUID, search string, limit, offset int) ([]models.Patient, int64, error) {
	var total int64
	var rows pgx.Rows
	var err error

	if search == "" {
		countQuery := `SELECT COUNT(*) FROM patients WHERE doctor_id = $1`
		if err = d.Pool.QueryRow(ctx, countQuery, doctorID).Scan(&total); err != nil {
			return nil, 0, err
		}
		query := `
			SELECT ` + patientColumns + `
			FROM patients
			WHERE doctor_id = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3
		`
		rows, err = d.Pool.Query(ctx, query, doctorID, limit, offset)
	} else {
		pattern := "%" + search + "%"
		countQuery := `
			SELECT COUNT(*) FROM patients
			WHERE doctor_id = $1
				AND (first_name ILIKE $2 OR last_name ILIKE $2 OR first_name || ' ' || last_name ILIKE $2)
		`
		if err = d.Pool.QueryRow(ctx, countQuery, doctorID, pattern).Scan(&total); err != nil {
			return nil, 0, err
		}
		query := `
			SELECT ` + patientColumns + `
			FROM patients
			WHERE doctor_id = $1
				AND (first_name ILIKE $2 OR last_name ILIKE $2 OR first_name || ' ' || last_name ILIKE $2)
			ORDER BY created_at DESC
			LIMIT $3 OFFSET $4
		`
		rows, err = d.Pool.Query(ctx, query, doctorID, pattern, limit, offset)
	}
	if err != nil {
		return nil, 0, err
	}

	patients, err := scanPatients(rows)
	return patients, total, err
}

// UpdatePatient updates a patient's record, scoped to the owning doctor.
func (d *DB) UpdatePatient(ctx context.Context, p *models.Patient) error {
	query := `
		UPDATE patients
		SET first_name = $1, last_name = $2, date_of_birth = $3, gender = $4,
			email = $5, phone = $6, address = $7, medical_history = $8,
			insurance_info = $9, updated_at = NOW()
		WHERE id = $10 AND doctor_id = $11
		RETURNING updated_at
	`
	err := d.Pool.QueryRow(ctx, query,
		p.FirstName,
		p.LastName,
		p.DateOfBirth,
		p.Gender,
		p.Email,
		p.Phone,
		p.Address,
		p.MedicalHistory,
		p.InsuranceInfo,
		p.ID,
		p.DoctorID,
	).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrPatientNotFound
	}
	return err
}

// DeletePatient deletes a patient, scoped to the owning doctor.
func (d *DB) DeletePatient(ctx context.Context, id, doctorID uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM patients WHERE id = $1 AND doctor_id = $2`, id, doctorID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrPatientNotFound
	}
	return nil
}
