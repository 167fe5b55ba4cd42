package models

import (
	"time"

	"github.com/google/uuid"
)

// Lookup entry kind constants
const (
	KindMedicine  = "medicine"
	KindDiagnosis = "diagnosis"
	KindPatient   = "patient"
)

// LookupEntry is a canonical text value eligible for autocomplete.
// Text is unique per kind, compared case-insensitively; the stored form
// keeps the original casing.
type LookupEntry struct {
	ID         uuid.UUID `json:"id"`
	Kind       string    `json:"kind"`
	Text       string    `json:"text"`
	UsageCount int64     `json:"usage_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// LookupKindUsage aggregates entry and selection counts for one kind.
type LookupKindUsage struct {
	Kind       string
	Entries    int64
	TotalUsage int64
}

// ValidLookupKind reports whether kind is a recognized lookup entry kind.
func ValidLookupKind(kind string) bool {
	switch kind {
	case KindMedicine, KindDiagnosis, KindPatient:
		return true
	}
	return false
}
