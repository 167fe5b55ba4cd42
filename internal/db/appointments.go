package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mkgstf/DocRP-Backend/internal/models"
)

// isOverlapViolation reports whether err is the appointments_no_overlap
// exclusion constraint firing (SQLSTATE 23P01). Concurrent creates that
// slip past the EXISTS pre-check end up here.
func isOverlapViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23P01"
}

// appointmentColumns is the standard column list for appointment queries.
const appointmentColumns = `a.id, a.doctor_id, a.patient_id, a.starts_at, a.ends_at,
	a.reason, a.status, a.notes, a.created_at, a.updated_at,
	p.first_name || ' ' || p.last_name`

// scanAppointments scans joined rows into a slice of Appointments.
func scanAppointments(rows pgx.Rows) ([]models.Appointment, error) {
	defer rows.Close()

	var appts []models.Appointment
	for rows.Next() {
		var a models.Appointment
		if err := rows.Scan(
			&a.ID,
			&a.DoctorID,
			&a.PatientID,
			&a.StartsAt,
			&a.EndsAt,
			&a.Reason,
			&a.Status,
			&a.Notes,
			&a.CreatedAt,
			&a.UpdatedAt,
			&a.PatientName,
		); err != nil {
			return nil, err
		}
		appts = append(appts, a)
	}

	return appts, rows.Err()
}

// HasOverlappingAppointment reports whether the doctor already has a
// non-canceled appointment intersecting [startsAt, endsAt). exclude, when
// non-nil, names an appointment to ignore (used on updates).
func (d *DB) HasOverlappingAppointment(ctx context.Context, doctorID uuid.UUID, startsAt, endsAt time.Time, exclude *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE doctor_id = $1
				AND status <> 'canceled'
				AND starts_at < $3
				AND ends_at > $2
				AND ($4::uuid IS NULL OR id <> $4)
		)
	`
	var overlaps bool
	err := d.Pool.QueryRow(ctx, query, doctorID, startsAt, endsAt, exclude).Scan(&overlaps)
	return overlaps, err
}

// CreateAppointment inserts a new appointment after checking for overlap.
func (d *DB) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	overlaps, err := d.HasOverlappingAppointment(ctx, a.DoctorID, a.StartsAt, a.EndsAt, nil)
	if err != nil {
		return err
	}
	if overlaps {
		return ErrAppointmentOverlap
	}

	query := `
		INSERT INTO appointments (doctor_id, patient_id, starts_at, ends_at, reason, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	status := a.Status
	if status == "" {
		status = models.AppointmentScheduled
	}

	err = d.Pool.QueryRow(ctx, query,
		a.DoctorID,
		a.PatientID,
		a.StartsAt,
		a.EndsAt,
		a.Reason,
		status,
		a.Notes,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if isOverlapViolation(err) {
		return ErrAppointmentOverlap
	}
	if err != nil {
		return err
	}

	a.Status = status
	return nil
}

// GetAppointment retrieves an appointment by ID, scoped to the owning doctor.
func (d *DB) GetAppointment(ctx context.Context, id, doctorID uuid.UUID) (*models.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		WHERE a.id = $1 AND a.doctor_id = $2
	`
	var a models.Appointment
	err := d.Pool.QueryRow(ctx, query, id, doctorID).Scan(
		&a.ID,
		&a.DoctorID,
		&a.PatientID,
		&a.StartsAt,
		&a.EndsAt,
		&a.Reason,
		&a.Status,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.PatientName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAppointments returns a doctor's appointments in a time range,
// optionally filtered by status and patient.
func (d *DB) ListAppointments(ctx context.Context, doctorID uuid.UUID, from, to time.Time, status string, patientID *uuid.UUID) ([]models.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		WHERE a.doctor_id = $1
			AND a.starts_at >= $2 AND a.starts_at < $3
			AND ($4::text = '' OR a.status = $4)
			AND ($5::uuid IS NULL OR a.patient_id = $5)
		ORDER BY a.starts_at ASC
	`
	rows, err := d.Pool.Query(ctx, query, doctorID, from, to, status, patientID)
	if err != nil {
		return nil, err
	}
	return scanAppointments(rows)
}

// UpdateAppointment updates an appointment, re-checking the overlap guard.
func (d *DB) UpdateAppointment(ctx context.Context, a *models.Appointment) error {
	overlaps, err := d.HasOverlappingAppointment(ctx, a.DoctorID, a.StartsAt, a.EndsAt, &a.ID)
	if err != nil {
		return err
	}
	if overlaps {
		return ErrAppointmentOverlap
	}

	query := `
		UPDATE appointments
		SET starts_at = $1, ends_at = $2, reason = $3, status = $4, notes = $5, updated_at = NOW()
		WHERE id = $6 AND doctor_id = $7
		RETURNING updated_at
	`
	err = d.Pool.QueryRow(ctx, query,
		a.StartsAt,
		a.EndsAt,
		a.Reason,
		a.Status,
		a.Notes,
		a.ID,
		a.DoctorID,
	).Scan(&a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrAppointmentNotFound
	}
	if isOverlapViolation(err) {
		return ErrAppointmentOverlap
	}
	return err
}

// DeleteAppointment deletes an appointment, scoped to the owning doctor.
func (d *DB) DeleteAppointment(ctx context.Context, id, doctorID uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1 AND doctor_id = $2`, id, doctorID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// ClaimAppointmentsForReminder returns scheduled appointments starting
// within the lead window whose reminder has not been sent yet, marking them
// sent in the same statement so concurrent sweepers don't double-send.
func (d *DB) ClaimAppointmentsForReminder(ctx context.Context, lead time.Duration) ([]models.AppointmentReminder, error) {
	rows, err := d.Pool.Query(ctx, `
		UPDATE appointments a
		SET reminder_sent_at = NOW()
		FROM patients p, doctors doc
		WHERE p.id = a.patient_id
			AND doc.id = a.doctor_id
			AND a.status = 'scheduled'
			AND a.reminder_sent_at IS NULL
			AND a.starts_at > NOW()
			AND a.starts_at <= NOW() + $1
		RETURNING a.id, a.doctor_id, a.patient_id, a.starts_at, a.ends_at,
			a.reason, a.status, a.notes, a.created_at, a.updated_at,
			p.first_name || ' ' || p.last_name, p.email,
			doc.first_name || ' ' || doc.last_name
	`, lead)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []models.AppointmentReminder
	for rows.Next() {
		var r models.AppointmentReminder
		if err := rows.Scan(
			&r.ID,
			&r.DoctorID,
			&r.PatientID,
			&r.StartsAt,
			&r.EndsAt,
			&r.Reason,
			&r.Status,
			&r.Notes,
			&r.CreatedAt,
			&r.UpdatedAt,
			&r.PatientName,
			&r.PatientEmail,
			&r.DoctorName,
		); err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

// MarkPastAppointmentsNoShow flips scheduled appointments whose end time has
// passed to no_show and returns how many were updated.
func (d *DB) MarkPastAppointmentsNoShow(ctx context.Context) (int64, error) {
	result, err := d.Pool.Exec(ctx, `
		UPDATE appointments
		SET status = 'no_show', updated_at = NOW()
		WHERE status = 'scheduled' AND ends_at < NOW()
	`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
