package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mkgstf/DocRP-Backend/internal/models"
)

// prescriptionColumns is the standard column list for prescription queries.
const prescriptionColumns = `id, doctor_id, patient_id, appointment_id, issue_date,
	expiry_date, notes, created_at, updated_at`

// scanPrescription scans a row into a Prescription struct.
func scanPrescription(row pgx.Row) (*models.Prescription, error) {
	var pr models.Prescription
	err := row.Scan(
		&pr.ID,
		&pr.DoctorID,
		&pr.PatientID,
		&pr.AppointmentID,
		&pr.IssueDate,
		&pr.ExpiryDate,
		&pr.Notes,
		&pr.CreatedAt,
		&pr.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPrescriptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pr, nil
}

// CreatePrescription inserts a prescription and its items in one transaction.
func (d *DB) CreatePrescription(ctx context.Context, pr *models.Prescription) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO prescriptions (doctor_id, patient_id, appointment_id, issue_date, expiry_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRow(ctx, query,
		pr.DoctorID,
		pr.PatientID,
		pr.AppointmentID,
		pr.IssueDate,
		pr.ExpiryDate,
		pr.Notes,
	).Scan(&pr.ID, &pr.CreatedAt, &pr.UpdatedAt)
	if err != nil {
		return err
	}

	for i := range pr.Items {
		item := &pr.Items[i]
		item.PrescriptionID = pr.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO prescription_items (prescription_id, medicine_id, dosage, frequency, duration, instructions)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at
		`, item.PrescriptionID, item.MedicineID, item.Dosage, item.Frequency, item.Duration, item.Instructions,
		).Scan(&item.ID, &item.CreatedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetPrescription retrieves a prescription with its items, scoped to the
// owning doctor.
func (d *DB) GetPrescription(ctx context.Context, id, doctorID uuid.UUID) (*models.Prescription, error) {
	query := `SELECT ` + prescriptionColumns + ` FROM prescriptions WHERE id = $1 AND doctor_id = $2`
	pr, err := scanPrescription(d.Pool.QueryRow(ctx, query, id, doctorID))
	if err != nil {
		return nil, err
	}

	items, err := d.getPrescriptionItems(ctx, pr.ID)
	if err != nil {
		return nil, err
	}
	pr.Items = items
	return pr, nil
}

func (d *DB) getPrescriptionItems(ctx context.Context, prescriptionID uuid.UUID) ([]models.PrescriptionItem, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT pi.id, pi.prescription_id, pi.medicine_id, pi.dosage, pi.frequency,
			pi.duration, pi.instructions, pi.created_at, m.name
		FROM prescription_items pi
		JOIN medicines m ON m.id = pi.medicine_id
		WHERE pi.prescription_id = $1
		ORDER BY pi.created_at ASC
	`, prescriptionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.PrescriptionItem
	for rows.Next() {
		var item models.PrescriptionItem
		if err := rows.Scan(
			&item.ID,
			&item.PrescriptionID,
			&item.MedicineID,
			&item.Dosage,
			&item.Frequency,
			&item.Duration,
			&item.Instructions,
			&item.CreatedAt,
			&item.MedicineName,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListPrescriptions returns a doctor's prescriptions, optionally filtered by
// patient, newest first. Items are not loaded.
func (d *DB) ListPrescriptions(ctx context.Context, doctorID uuid.UUID, patientID *uuid.UUID, limit, offset int) ([]models.Prescription, int64, error) {
	var total int64
	countQuery := `
		SELECT COUNT(*) FROM prescriptions
		WHERE doctor_id = $1 AND ($2::uuid IS NULL OR patient_id = $2)
	`
	if err := d.Pool.QueryRow(ctx, countQuery, doctorID, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + prescriptionColumns + `
		FROM prescriptions
		WHERE doctor_id = $1 AND ($2::uuid IS NULL OR patient_id = $2)
		ORDER BY issue_date DESC, created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := d.Pool.Query(ctx, query, doctorID, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var prescriptions []models.Prescription
	for rows.Next() {
		var pr models.Prescription
		if err := rows.Scan(
			&pr.ID,
			&pr.DoctorID,
			&pr.PatientID,
			&pr.AppointmentID,
			&pr.IssueDate,
			&pr.ExpiryDate,
			&pr.Notes,
			&pr.CreatedAt,
			&pr.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		prescriptions = append(prescriptions, pr)
	}
	return prescriptions, total, rows.Err()
}

// UpdatePrescription replaces a prescription's fields and items in one
// transaction, scoped to the owning doctor.
func (d *DB) UpdatePrescription(ctx context.Context, pr *models.Prescription) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE prescriptions
		SET appointment_id = $1, issue_date = $2, expiry_date = $3, notes = $4, updated_at = NOW()
		WHERE id = $5 AND doctor_id = $6
		RETURNING updated_at
	`
	err = tx.QueryRow(ctx, query,
		pr.AppointmentID,
		pr.IssueDate,
		pr.ExpiryDate,
		pr.Notes,
		pr.ID,
		pr.DoctorID,
	).Scan(&pr.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrPrescriptionNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM prescription_items WHERE prescription_id = $1`, pr.ID); err != nil {
		return err
	}

	for i := range pr.Items {
		item := &pr.Items[i]
		item.PrescriptionID = pr.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO prescription_items (prescription_id, medicine_id, dosage, frequency, duration, instructions)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at
		`, item.PrescriptionID, item.MedicineID, item.Dosage, item.Frequency, item.Duration, item.Instructions,
		).Scan(&item.ID, &item.CreatedAt)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// DeletePrescription deletes a prescription and its items, scoped to the
// owning doctor.
func (d *DB) DeletePrescription(ctx context.Context, id, doctorID uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM prescriptions WHERE id = $1 AND doctor_id = $2`, id, doctorID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrPrescriptionNotFound
	}
	return nil
}
