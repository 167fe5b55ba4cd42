package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mkgstf/DocRP-Backend/internal/models"
)

// GetOverviewStats returns the dashboard summary for a doctor.
func (d *DB) GetOverviewStats(ctx context.Context, doctorID uuid.UUID) (*models.OverviewStats, error) {
	var s models.OverviewStats
	err := d.Pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM patients WHERE doctor_id = $1),
			(SELECT COUNT(*) FROM patients WHERE doctor_id = $1 AND created_at >= NOW() - INTERVAL '30 days'),
			(SELECT COUNT(*) FROM appointments WHERE doctor_id = $1 AND status = 'scheduled' AND starts_at > NOW()),
			(SELECT COUNT(*) FROM appointments WHERE doctor_id = $1 AND starts_at::date = CURRENT_DATE),
			(SELECT COUNT(*) FROM prescriptions WHERE doctor_id = $1)
	`, doctorID).Scan(
		&s.TotalPatients,
		&s.NewPatients30d,
		&s.UpcomingAppointments,
		&s.TodayAppointments,
		&s.TotalPrescriptions,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetAppointmentBuckets returns per-day or per-month appointment counts for
// a doctor over [from, to). groupBy must be "day" or "month".
func (d *DB) GetAppointmentBuckets(ctx context.Context, doctorID uuid.UUID, from, to time.Time, groupBy string) ([]models.AppointmentBucket, error) {
	format := "YYYY-MM-DD"
	if groupBy == "month" {
		format = "YYYY-MM"
	}

	rows, err := d.Pool.Query(ctx, `
		SELECT to_char(starts_at, $4) AS period,
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'canceled'),
			COUNT(*) FILTER (WHERE status = 'no_show')
		FROM appointments
		WHERE doctor_id = $1 AND starts_at >= $2 AND starts_at < $3
		GROUP BY period
		ORDER BY period ASC
	`, doctorID, from, to, format)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []models.AppointmentBucket
	for rows.Next() {
		var b models.AppointmentBucket
		if err := rows.Scan(&b.Period, &b.Total, &b.Completed, &b.Canceled, &b.NoShow); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// GetTopDiagnoses returns the most assigned diagnoses among a doctor's
// patients.
func (d *DB) GetTopDiagnoses(ctx context.Context, doctorID uuid.UUID, limit int) ([]models.NameCount, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT dg.name, COUNT(*)
		FROM patient_diagnoses pd
		JOIN diagnoses dg ON dg.id = pd.diagnosis_id
		JOIN patients p ON p.id = pd.patient_id
		WHERE p.doctor_id = $1
		GROUP BY dg.name
		ORDER BY COUNT(*) DESC, dg.name ASC
		LIMIT $2
	`, doctorID, limit)
	if err != nil {
		return nil, err
	}
	return scanNameCounts(rows)
}

// GetTopMedicines returns the most prescribed medicines for a doctor.
func (d *DB) GetTopMedicines(ctx context.Context, doctorID uuid.UUID, limit int) ([]models.NameCount, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT m.name, COUNT(*)
		FROM prescription_items pi
		JOIN prescriptions pr ON pr.id = pi.prescription_id
		JOIN medicines m ON m.id = pi.medicine_id
		WHERE pr.doctor_id = $1
		GROUP BY m.name
		ORDER BY COUNT(*) DESC, m.name ASC
		LIMIT $2
	`, doctorID, limit)
	if err != nil {
		return nil, err
	}
	return scanNameCounts(rows)
}

func scanNameCounts(rows pgx.Rows) ([]models.NameCount, error) {
	defer rows.Close()

	var counts []models.NameCount
	for rows.Next() {
		var nc models.NameCount
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, nc)
	}
	return counts, rows.Err()
}

// SuggestDosage returns the most common way a medicine has been prescribed
// across all prescriptions, or nil when there is no history.
func (d *DB) SuggestDosage(ctx context.Context, medicineID uuid.UUID) (*models.DosageSuggestion, error) {
	var s models.DosageSuggestion
	err := d.Pool.QueryRow(ctx, `
		SELECT dosage, frequency, duration, instructions
		FROM prescription_items
		WHERE medicine_id = $1
		GROUP BY dosage, frequency, duration, instructions
		ORDER BY COUNT(*) DESC, MAX(created_at) DESC
		LIMIT 1
	`, medicineID).Scan(&s.Dosage, &s.Frequency, &s.Duration, &s.Instructions)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
