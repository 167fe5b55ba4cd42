// Package lookup implements the autocomplete core shared by the medicine,
// diagnosis, and patient suggestion endpoints. Entries are unique per kind
// on their normalized text; ranking is deterministic so results can be
// asserted exactly in tests.
package lookup

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/mkgstf/DocRP-Backend/internal/models"
)

var (
	// ErrInvalidKind is returned for an unrecognized entry kind.
	ErrInvalidKind = errors.New("invalid lookup kind")
	// ErrNotFound is returned when an entry id does not exist.
	ErrNotFound = errors.New("lookup entry not found")
	// ErrEmptyText is returned by GetOrCreate when the text normalizes to
	// the empty string.
	ErrEmptyText = errors.New("lookup text is empty")
)

// DefaultLimit is used when a caller passes a non-positive search limit.
const DefaultLimit = 10

// Normalize trims, collapses internal whitespace, and lowercases text.
// Entries are compared on their normalized form; the stored display text
// keeps its original casing.
func Normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Store is the persistence collaborator for lookup entries. *db.DB
// satisfies it; tests use an in-memory implementation.
type Store interface {
	SearchLookupEntries(ctx context.Context, kind, normalized string) ([]models.LookupEntry, error)
	TopLookupEntries(ctx context.Context, kind string, limit int) ([]models.LookupEntry, error)
	InsertLookupEntryIfAbsent(ctx context.Context, kind, text, normalized string) (*models.LookupEntry, bool, error)
	IncrementLookupUsage(ctx context.Context, id uuid.UUID) error
	GetLookupEntry(ctx context.Context, id uuid.UUID) (*models.LookupEntry, error)
}

// Service exposes search, selection recording, and get-or-create over a
// Store. It holds no state besides the store handle and the limit cap.
type Service struct {
	store    Store
	maxLimit int
}

// NewService creates a Service. maxLimit caps the search limit a caller
// may request; non-positive values fall back to DefaultLimit.
func NewService(store Store, maxLimit int) *Service {
	if maxLimit <= 0 {
		maxLimit = DefaultLimit
	}
	return &Service{store: store, maxLimit: maxLimit}
}

// Search returns up to limit entries of the given kind matching query.
// Prefix matches rank before substring matches; within each tier entries
// are ordered by usage count descending, then text ascending. An empty
// query returns the most used entries. Search has no side effects.
func (s *Service) Search(ctx context.Context, kind, query string, limit int) ([]models.LookupEntry, error) {
	if !models.ValidLookupKind(kind) {
		return nil, ErrInvalidKind
	}

	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	normalized := Normalize(query)
	if normalized == "" {
		entries, err := s.store.TopLookupEntries(ctx, kind, limit)
		if err != nil {
			return nil, err
		}
		rankEntries(entries)
		return entries, nil
	}

	candidates, err := s.store.SearchLookupEntries(ctx, kind, normalized)
	if err != nil {
		return nil, err
	}

	var prefix, substring []models.LookupEntry
	for _, e := range candidates {
		if strings.HasPrefix(Normalize(e.Text), normalized) {
			prefix = append(prefix, e)
		} else {
			substring = append(substring, e)
		}
	}

	rankEntries(prefix)
	rankEntries(substring)

	results := append(prefix, substring...)
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// rankEntries sorts in place by usage count descending, then text
// ascending. Sorting here rather than trusting store order keeps the
// contract identical for every Store implementation.
func rankEntries(entries []models.LookupEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].UsageCount != entries[j].UsageCount {
			return entries[i].UsageCount > entries[j].UsageCount
		}
		return entries[i].Text < entries[j].Text
	})
}

// RecordSelection increments an entry's usage count and returns the
// updated entry. Each call increments; two calls add two.
func (s *Service) RecordSelection(ctx context.Context, id uuid.UUID) (*models.LookupEntry, error) {
	if err := s.store.IncrementLookupUsage(ctx, id); err != nil {
		return nil, err
	}
	return s.store.GetLookupEntry(ctx, id)
}

// GetOrCreate returns the entry whose normalized text matches text within
// kind, creating it with usage count zero if absent. The created flag
// reports whether this call inserted the entry. Concurrent calls with the
// same (kind, text) resolve to a single stored entry through the store's
// insert-if-absent primitive.
func (s *Service) GetOrCreate(ctx context.Context, kind, text string) (*models.LookupEntry, bool, error) {
	if !models.ValidLookupKind(kind) {
		return nil, false, ErrInvalidKind
	}

	normalized := Normalize(text)
	if normalized == "" {
		return nil, false, ErrEmptyText
	}

	// Stored text keeps its casing but is trimmed and whitespace-collapsed
	// so the display form matches the normalized key word for word.
	stored := strings.Join(strings.Fields(text), " ")
	return s.store.InsertLookupEntryIfAbsent(ctx, kind, stored, normalized)
}
