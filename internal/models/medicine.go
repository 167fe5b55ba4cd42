package models

import (
	"time"

	"github.com/google/uuid"
)

// Medicine represents a prescribable medication in the shared catalog.
type Medicine struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	DosageForm   string    `json:"dosage_form,omitempty"` // tablet, capsule, syrup, ...
	Strength     string    `json:"strength,omitempty"`    // 500mg, 10ml, ...
	Manufacturer string    `json:"manufacturer,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
