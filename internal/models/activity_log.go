package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivityLog records a doctor's action for the audit trail.
type ActivityLog struct {
	ID         uuid.UUID  `json:"id"`
	DoctorID   uuid.UUID  `json:"doctor_id"`
	Action     string     `json:"action"`
	EntityType string     `json:"entity_type,omitempty"` // patient, appointment, prescription, ...
	EntityID   *uuid.UUID `json:"entity_id,omitempty"`
	Details    string     `json:"details,omitempty"`
	IPAddress  string     `json:"ip_address,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
