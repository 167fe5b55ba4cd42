package lookup

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/mkgstf/DocRP-Backend/internal/models"
)

// memStore is an in-memory Store for exercising the service without a
// database. Not safe for concurrent use; tests are sequential.
type memStore struct {
	entries map[uuid.UUID]*models.LookupEntry
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[uuid.UUID]*models.LookupEntry)}
}

func (m *memStore) add(kind, text string, usage int64) *models.LookupEntry {
	e := &models.LookupEntry{ID: uuid.New(), Kind: kind, Text: text, UsageCount: usage}
	m.entries[e.ID] = e
	return e
}

func (m *memStore) SearchLookupEntries(_ context.Context, kind, normalized string) ([]models.LookupEntry, error) {
	var out []models.LookupEntry
	for _, e := range m.entries {
		if e.Kind != kind {
			continue
		}
		if strings.Contains(Normalize(e.Text), normalized) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memStore) TopLookupEntries(_ context.Context, kind string, limit int) ([]models.LookupEntry, error) {
	var out []models.LookupEntry
	for _, e := range m.entries {
		if e.Kind == kind {
			out = append(out, *e)
		}
	}
	if len(out) > limit {
		rankEntries(out)
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) InsertLookupEntryIfAbsent(_ context.Context, kind, text, normalized string) (*models.LookupEntry, bool, error) {
	for _, e := range m.entries {
		if e.Kind == kind && Normalize(e.Text) == normalized {
			dup := *e
			return &dup, false, nil
		}
	}
	e := m.add(kind, text, 0)
	dup := *e
	return &dup, true, nil
}

func (m *memStore) IncrementLookupUsage(_ context.Context, id uuid.UUID) error {
	e, ok := m.entries[id]
	if !ok {
		return ErrNotFound
	}
	e.UsageCount++
	return nil
}

func (m *memStore) GetLookupEntry(_ context.Context, id uuid.UUID) (*models.LookupEntry, error) {
	e, ok := m.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	dup := *e
	return &dup, nil
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase passthrough", "aspirin", "aspirin"},
		{"uppercase folded", "Paracetamol", "paracetamol"},
		{"leading and trailing space", "  ibuprofen  ", "ibuprofen"},
		{"internal whitespace collapsed", "vitamin   d3", "vitamin d3"},
		{"tabs and newlines", "beta\tblocker\n500", "beta blocker 500"},
		{"empty", "", ""},
		{"whitespace only", "   \t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSearchRanking(t *testing.T) {
	store := newMemStore()
	store.add(models.KindMedicine, "Paracetamol", 50)
	store.add(models.KindMedicine, "Paraffin Oil", 10)
	store.add(models.KindMedicine, "Pantoprazole", 90)
	store.add(models.KindMedicine, "Bisoprolol", 70)  // no match
	store.add(models.KindMedicine, "Hexaparin", 99)   // substring match
	store.add(models.KindDiagnosis, "Paranoia", 1000) // wrong kind, never returned

	svc := NewService(store, 20)

	results, err := svc.Search(context.Background(), models.KindMedicine, "para", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	want := []string{"Paracetamol", "Paraffin Oil", "Hexaparin"}
	if len(results) != len(want) {
		t.Fatalf("Search() returned %d results, want %d", len(results), len(want))
	}
	for i, text := range want {
		if results[i].Text != text {
			t.Errorf("results[%d].Text = %q, want %q", i, results[i].Text, text)
		}
	}
}

func TestSearchTieBrokenAlphabetically(t *testing.T) {
	store := newMemStore()
	store.add(models.KindDiagnosis, "Flu B", 5)
	store.add(models.KindDiagnosis, "Flu A", 5)
	store.add(models.KindDiagnosis, "Fluid Retention", 5)

	svc := NewService(store, 20)

	results, err := svc.Search(context.Background(), models.KindDiagnosis, "flu", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	want := []string{"Flu A", "Flu B", "Fluid Retention"}
	for i, text := range want {
		if results[i].Text != text {
			t.Errorf("results[%d].Text = %q, want %q", i, results[i].Text, text)
		}
	}
}

func TestSearchEmptyQueryReturnsMostUsed(t *testing.T) {
	store := newMemStore()
	texts := []string{"Asthma", "Bronchitis", "Cold", "Diabetes", "Eczema", "Flu", "Gastritis"}
	for i, text := range texts {
		store.add(models.KindDiagnosis, text, int64(i*10))
	}

	svc := NewService(store, 20)

	results, err := svc.Search(context.Background(), models.KindDiagnosis, "", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("Search() returned %d results, want 5", len(results))
	}

	want := []string{"Gastritis", "Flu", "Eczema", "Diabetes", "Cold"}
	for i, text := range want {
		if results[i].Text != text {
			t.Errorf("results[%d].Text = %q, want %q", i, results[i].Text, text)
		}
	}
}

func TestSearchLimitClamped(t *testing.T) {
	store := newMemStore()
	for _, text := range []string{"A1", "A2", "A3", "A4", "A5"} {
		store.add(models.KindMedicine, text, 0)
	}

	svc := NewService(store, 3)

	results, err := svc.Search(context.Background(), models.KindMedicine, "a", 100)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 3 {
		t.Errorf("Search() returned %d results, want max limit 3", len(results))
	}
}

func TestSearchInvalidKind(t *testing.T) {
	svc := NewService(newMemStore(), 20)

	_, err := svc.Search(context.Background(), "unknown_kind", "x", 5)
	if !errors.Is(err, ErrInvalidKind) {
		t.Errorf("Search() error = %v, want ErrInvalidKind", err)
	}
}

func TestGetOrCreate(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, 20)
	ctx := context.Background()

	first, created, err := svc.GetOrCreate(ctx, models.KindMedicine, "Paracetamol")
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if !created {
		t.Error("first GetOrCreate() created = false, want true")
	}
	if first.Text != "Paracetamol" {
		t.Errorf("stored text = %q, want original casing preserved", first.Text)
	}
	if first.UsageCount != 0 {
		t.Errorf("new entry usage_count = %d, want 0", first.UsageCount)
	}

	second, created, err := svc.GetOrCreate(ctx, models.KindMedicine, " paracetamol ")
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if created {
		t.Error("second GetOrCreate() created = true, want false")
	}
	if second.ID != first.ID {
		t.Errorf("second GetOrCreate() id = %v, want %v", second.ID, first.ID)
	}
}

func TestGetOrCreateCollapsesStoredWhitespace(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, 20)
	ctx := context.Background()

	entry, created, err := svc.GetOrCreate(ctx, models.KindMedicine, "  Vitamin   D3  ")
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if !created {
		t.Error("GetOrCreate() created = false, want true")
	}
	if entry.Text != "Vitamin D3" {
		t.Errorf("stored text = %q, want %q", entry.Text, "Vitamin D3")
	}

	// The tidied form resolves to the same entry
	again, created, err := svc.GetOrCreate(ctx, models.KindMedicine, "vitamin d3")
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if created || again.ID != entry.ID {
		t.Errorf("GetOrCreate() = (%v, %v), want existing entry %v", again.ID, created, entry.ID)
	}
}

func TestGetOrCreateInvalidInput(t *testing.T) {
	svc := NewService(newMemStore(), 20)
	ctx := context.Background()

	if _, _, err := svc.GetOrCreate(ctx, "unknown_kind", "x"); !errors.Is(err, ErrInvalidKind) {
		t.Errorf("GetOrCreate() error = %v, want ErrInvalidKind", err)
	}
	if _, _, err := svc.GetOrCreate(ctx, models.KindMedicine, "   "); !errors.Is(err, ErrEmptyText) {
		t.Errorf("GetOrCreate() error = %v, want ErrEmptyText", err)
	}
}

func TestRecordSelection(t *testing.T) {
	store := newMemStore()
	e := store.add(models.KindMedicine, "Aspirin", 3)
	svc := NewService(store, 20)
	ctx := context.Background()

	if _, err := svc.RecordSelection(ctx, e.ID); err != nil {
		t.Fatalf("RecordSelection() error = %v", err)
	}
	updated, err := svc.RecordSelection(ctx, e.ID)
	if err != nil {
		t.Fatalf("RecordSelection() error = %v", err)
	}
	if updated.UsageCount != 5 {
		t.Errorf("usage_count after two selections = %d, want 5", updated.UsageCount)
	}
}

func TestRecordSelectionNotFound(t *testing.T) {
	svc := NewService(newMemStore(), 20)

	_, err := svc.RecordSelection(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("RecordSelection() error = %v, want ErrNotFound", err)
	}
}

func TestSelectionAffectsRanking(t *testing.T) {
	store := newMemStore()
	a := store.add(models.KindMedicine, "Amlodipine", 0)
	store.add(models.KindMedicine, "Amoxicillin", 0)
	svc := NewService(store, 20)
	ctx := context.Background()

	// Alphabetical before any selections.
	results, err := svc.Search(ctx, models.KindMedicine, "am", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if results[0].Text != "Amlodipine" {
		t.Fatalf("results[0].Text = %q, want Amlodipine", results[0].Text)
	}

	// A selection on the second entry must promote it.
	other := results[1]
	if _, err := svc.RecordSelection(ctx, other.ID); err != nil {
		t.Fatalf("RecordSelection() error = %v", err)
	}

	results, err = svc.Search(ctx, models.KindMedicine, "am", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if results[0].ID != other.ID {
		t.Errorf("results[0] = %q, want promoted %q", results[0].Text, other.Text)
	}
	if results[1].ID != a.ID {
		t.Errorf("results[1] = %q, want %q", results[1].Text, a.Text)
	}
}
