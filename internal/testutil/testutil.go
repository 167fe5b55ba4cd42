// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkgstf/DocRP-Backend/internal/db"
	"github.com/mkgstf/DocRP-Backend/internal/models"
)

// TestDB creates a test database connection and returns a cleanup function.
// Skips the test unless TEST_DATABASE_URL points at a reachable database.
func TestDB(t *testing.T) (*db.DB, func()) {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database test")
	}

	ctx := context.Background()
	database, err := db.New(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	cleanup := func() {
		cleanupTestData(ctx, database.Pool)
		database.Close()
	}

	return database, cleanup
}

// cleanupTestData removes all test data from the database.
func cleanupTestData(ctx context.Context, pool *pgxpool.Pool) {
	// Delete in order to respect foreign keys
	tables := []string{
		"note_tags",
		"notes",
		"tags",
		"prescription_items",
		"patient_diagnoses",
		"prescriptions",
		"appointments",
		"patients",
		"activity_logs",
		"lookup_entries",
		"diagnoses",
		"medicines",
		"doctors",
	}
	for _, table := range tables {
		pool.Exec(ctx, "DELETE FROM "+table)
	}
}

// CreateTestDoctor creates a doctor account and returns it.
func CreateTestDoctor(t *testing.T, database *db.DB, username string) *models.Doctor {
	t.Helper()
	ctx := context.Background()

	doctor := &models.Doctor{
		Email:        fmt.Sprintf("%s@example.com", username),
		Username:     username,
		PasswordHash: "$2a$10$testtesttesttesttesttesttesttesttesttesttesttesttesto",
		FirstName:    "Test",
		LastName:     "Doctor",
	}
	if err := database.CreateDoctor(ctx, doctor); err != nil {
		t.Fatalf("failed to create test doctor: %v", err)
	}

	return doctor
}

// CreateTestPatient creates a patient owned by the given doctor and returns it.
func CreateTestPatient(t *testing.T, database *db.DB, doctorID uuid.UUID, firstName, lastName string) *models.Patient {
	t.Helper()
	ctx := context.Background()

	patient := &models.Patient{
		DoctorID:    doctorID,
		FirstName:   firstName,
		LastName:    lastName,
		DateOfBirth: time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC),
		Gender:      "other",
	}
	if err := database.CreatePatient(ctx, patient); err != nil {
		t.Fatalf("failed to create test patient: %v", err)
	}

	return patient
}

// CreateTestMedicine inserts a medicine catalog row and returns its ID.
func CreateTestMedicine(t *testing.T, database *db.DB, name string) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	m := &models.Medicine{Name: name, Strength: "500mg", DosageForm: "tablet"}
	if err := database.CreateMedicine(ctx, m); err != nil {
		t.Fatalf("failed to create test medicine: %v", err)
	}

	return m.ID
}
