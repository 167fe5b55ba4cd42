package models

import (
	"time"

	"github.com/google/uuid"
)

// Note represents a doctor's clinical note about a patient.
type Note struct {
	ID            uuid.UUID  `json:"id"`
	DoctorID      uuid.UUID  `json:"doctor_id"`
	PatientID     uuid.UUID  `json:"patient_id"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
	Title         string     `json:"title,omitempty"`
	Content       string     `json:"content"`
	Category      string     `json:"category,omitempty"` // clinical, administrative, follow-up, ...
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Tags []Tag `json:"tags,omitempty"`
}

// Tag categorizes notes.
type Tag struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"` // hex color code
	CreatedAt time.Time `json:"created_at"`
}
