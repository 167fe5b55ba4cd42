package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mkgstf/DocRP-Backend/internal/models"
)

func createApptFixtures(t *testing.T, database *DB) (doctorID, patientID uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	doctor := &models.Doctor{
		Email:        "appt-doc@example.com",
		Username:     "apptdoc",
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     "Doctor",
	}
	if err := database.CreateDoctor(ctx, doctor); err != nil {
		t.Fatalf("CreateDoctor() error = %v", err)
	}

	patient := &models.Patient{
		DoctorID:    doctor.ID,
		FirstName:   "Jane",
		LastName:    "Doe",
		DateOfBirth: time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC),
	}
	if err := database.CreatePatient(ctx, patient); err != nil {
		t.Fatalf("CreatePatient() error = %v", err)
	}

	return doctor.ID, patient.ID
}

func TestCreateAppointmentOverlap(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	doctorID, patientID := createApptFixtures(t, database)

	start := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	first := &models.Appointment{
		DoctorID:  doctorID,
		PatientID: patientID,
		StartsAt:  start,
		EndsAt:    start.Add(30 * time.Minute),
	}
	if err := database.CreateAppointment(ctx, first); err != nil {
		t.Fatalf("CreateAppointment() error = %v", err)
	}

	overlapping := &models.Appointment{
		DoctorID:  doctorID,
		PatientID: patientID,
		StartsAt:  start.Add(15 * time.Minute),
		EndsAt:    start.Add(45 * time.Minute),
	}
	if err := database.CreateAppointment(ctx, overlapping); !errors.Is(err, ErrAppointmentOverlap) {
		t.Errorf("CreateAppointment() error = %v, want ErrAppointmentOverlap", err)
	}

	// A direct insert bypasses the EXISTS pre-check, so the exclusion
	// constraint itself must reject the overlap
	_, err := database.Pool.Exec(ctx, `
		INSERT INTO appointments (doctor_id, patient_id, starts_at, ends_at)
		VALUES ($1, $2, $3, $4)
	`, doctorID, patientID, start.Add(15*time.Minute), start.Add(45*time.Minute))
	if !isOverlapViolation(err) {
		t.Errorf("direct overlapping insert error = %v, want exclusion violation", err)
	}

	// Canceled appointments do not block the slot
	canceled := &models.Appointment{
		DoctorID:  doctorID,
		PatientID: patientID,
		StartsAt:  start.Add(2 * time.Hour),
		EndsAt:    start.Add(3 * time.Hour),
		Status:    models.AppointmentCanceled,
	}
	if err := database.CreateAppointment(ctx, canceled); err != nil {
		t.Fatalf("CreateAppointment() canceled error = %v", err)
	}
	rebooked := &models.Appointment{
		DoctorID:  doctorID,
		PatientID: patientID,
		StartsAt:  start.Add(2 * time.Hour),
		EndsAt:    start.Add(3 * time.Hour),
	}
	if err := database.CreateAppointment(ctx, rebooked); err != nil {
		t.Errorf("CreateAppointment() over canceled slot error = %v, want nil", err)
	}
}

func TestUpdateAppointmentOverlap(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	doctorID, patientID := createApptFixtures(t, database)

	start := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	first := &models.Appointment{
		DoctorID:  doctorID,
		PatientID: patientID,
		StartsAt:  start,
		EndsAt:    start.Add(30 * time.Minute),
	}
	second := &models.Appointment{
		DoctorID:  doctorID,
		PatientID: patientID,
		StartsAt:  start.Add(time.Hour),
		EndsAt:    start.Add(90 * time.Minute),
	}
	for _, a := range []*models.Appointment{first, second} {
		if err := database.CreateAppointment(ctx, a); err != nil {
			t.Fatalf("CreateAppointment() error = %v", err)
		}
	}

	second.StartsAt = start.Add(15 * time.Minute)
	second.EndsAt = start.Add(45 * time.Minute)
	if err := database.UpdateAppointment(ctx, second); !errors.Is(err, ErrAppointmentOverlap) {
		t.Errorf("UpdateAppointment() error = %v, want ErrAppointmentOverlap", err)
	}

	// Rescheduling within its own old slot is not an overlap
	second.StartsAt = start.Add(time.Hour)
	second.EndsAt = start.Add(2 * time.Hour)
	if err := database.UpdateAppointment(ctx, second); err != nil {
		t.Errorf("UpdateAppointment() reschedule error = %v, want nil", err)
	}
}
