package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"

	"github.com/mkgstf/DocRP-Backend/internal/lookup"
	"github.com/mkgstf/DocRP-Backend/internal/models"
)

func setupTestDB(t *testing.T) (*DB, func()) {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := New(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	clear := func() {
		database.Pool.Exec(ctx, "DELETE FROM appointments")
		database.Pool.Exec(ctx, "DELETE FROM patients")
		database.Pool.Exec(ctx, "DELETE FROM lookup_entries")
		database.Pool.Exec(ctx, "DELETE FROM doctors")
	}
	clear()

	cleanup := func() {
		clear()
		database.Close()
	}

	return database, cleanup
}

func mustCreateEntry(t *testing.T, database *DB, kind, text string) *models.LookupEntry {
	t.Helper()

	entry, _, err := database.InsertLookupEntryIfAbsent(context.Background(), kind, text, lookup.Normalize(text))
	if err != nil {
		t.Fatalf("InsertLookupEntryIfAbsent(%q, %q) error = %v", kind, text, err)
	}
	return entry
}

func TestInsertLookupEntryIfAbsent(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	entry, created, err := database.InsertLookupEntryIfAbsent(ctx, models.KindMedicine, "Paracetamol", "paracetamol")
	if err != nil {
		t.Fatalf("InsertLookupEntryIfAbsent() error = %v", err)
	}
	if !created {
		t.Error("expected created = true on first insert")
	}
	if entry.Text != "Paracetamol" {
		t.Errorf("Text = %q, want original casing preserved", entry.Text)
	}

	// Same normalized text must land on the existing row
	again, created, err := database.InsertLookupEntryIfAbsent(ctx, models.KindMedicine, "PARACETAMOL", "paracetamol")
	if err != nil {
		t.Fatalf("InsertLookupEntryIfAbsent() second call error = %v", err)
	}
	if created {
		t.Error("expected created = false on conflict")
	}
	if again.ID != entry.ID {
		t.Errorf("conflict returned ID %s, want %s", again.ID, entry.ID)
	}
	if again.Text != "Paracetamol" {
		t.Errorf("conflict Text = %q, want stored casing", again.Text)
	}

	// Same text under a different kind is a distinct entry
	other, created, err := database.InsertLookupEntryIfAbsent(ctx, models.KindDiagnosis, "Paracetamol", "paracetamol")
	if err != nil {
		t.Fatalf("InsertLookupEntryIfAbsent() other kind error = %v", err)
	}
	if !created || other.ID == entry.ID {
		t.Error("expected a new entry for a different kind")
	}
}

func TestInsertLookupEntryIfAbsentConcurrent(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	const callers = 8

	var wg sync.WaitGroup
	var created atomic.Int64
	errs := make(chan error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, didCreate, err := database.InsertLookupEntryIfAbsent(ctx, models.KindDiagnosis, "Migraine", "migraine")
			if err != nil {
				errs <- err
				return
			}
			if didCreate {
				created.Add(1)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("InsertLookupEntryIfAbsent() error = %v", err)
	}
	if got := created.Load(); got != 1 {
		t.Errorf("%d callers saw created = true, want exactly 1", got)
	}

	var count int
	err := database.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM lookup_entries WHERE kind = $1 AND normalized_text = $2`,
		models.KindDiagnosis, "migraine",
	).Scan(&count)
	if err != nil {
		t.Fatalf("count query error = %v", err)
	}
	if count != 1 {
		t.Errorf("stored entries = %d, want 1", count)
	}
}

func TestIncrementLookupUsage(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	entry := mustCreateEntry(t, database, models.KindDiagnosis, "Hypertension")

	for i := 0; i < 3; i++ {
		if err := database.IncrementLookupUsage(ctx, entry.ID); err != nil {
			t.Fatalf("IncrementLookupUsage() error = %v", err)
		}
	}

	got, err := database.GetLookupEntry(ctx, entry.ID)
	if err != nil {
		t.Fatalf("GetLookupEntry() error = %v", err)
	}
	if got.UsageCount != 3 {
		t.Errorf("UsageCount = %d, want 3", got.UsageCount)
	}
}

func TestIncrementLookupUsageNotFound(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	err := database.IncrementLookupUsage(context.Background(), uuid.New())
	if !errors.Is(err, ErrLookupEntryNotFound) {
		t.Errorf("IncrementLookupUsage() error = %v, want ErrLookupEntryNotFound", err)
	}
}

func TestSearchLookupEntriesOrdering(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	amoxicillin := mustCreateEntry(t, database, models.KindMedicine, "Amoxicillin")
	mustCreateEntry(t, database, models.KindMedicine, "Ampicillin")
	mustCreateEntry(t, database, models.KindDiagnosis, "Amnesia")

	for i := 0; i < 2; i++ {
		if err := database.IncrementLookupUsage(ctx, amoxicillin.ID); err != nil {
			t.Fatalf("IncrementLookupUsage() error = %v", err)
		}
	}

	entries, err := database.SearchLookupEntries(ctx, models.KindMedicine, "am")
	if err != nil {
		t.Fatalf("SearchLookupEntries() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (kind filter must exclude diagnoses)", len(entries))
	}
	if entries[0].Text != "Amoxicillin" || entries[1].Text != "Ampicillin" {
		t.Errorf("order = [%s, %s], want usage desc", entries[0].Text, entries[1].Text)
	}
}

func TestSearchLookupEntriesCapsCandidates(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	for i := 0; i < searchCandidateCap+5; i++ {
		mustCreateEntry(t, database, models.KindMedicine, fmt.Sprintf("Verapamil %03d", i))
	}

	entries, err := database.SearchLookupEntries(ctx, models.KindMedicine, "verapamil")
	if err != nil {
		t.Fatalf("SearchLookupEntries() error = %v", err)
	}
	if len(entries) != searchCandidateCap {
		t.Errorf("got %d candidates, want cap of %d", len(entries), searchCandidateCap)
	}
}
