package models

import (
	"time"

	"github.com/google/uuid"
)

// Prescription represents a set of medicines prescribed to a patient.
type Prescription struct {
	ID            uuid.UUID  `json:"id"`
	DoctorID      uuid.UUID  `json:"doctor_id"`
	PatientID     uuid.UUID  `json:"patient_id"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
	IssueDate     time.Time  `json:"issue_date"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Items []PrescriptionItem `json:"items,omitempty"`
}

// PrescriptionItem is a single medicine line within a prescription.
type PrescriptionItem struct {
	ID             uuid.UUID `json:"id"`
	PrescriptionID uuid.UUID `json:"prescription_id"`
	MedicineID     uuid.UUID `json:"medicine_id"`
	Dosage         string    `json:"dosage"`    // e.g. "1 tablet"
	Frequency      string    `json:"frequency"` // e.g. "3 times a day"
	Duration       string    `json:"duration,omitempty"`
	Instructions   string    `json:"instructions,omitempty"`
	CreatedAt      time.Time `json:"created_at"`

	// MedicineName is populated on read queries for display.
	MedicineName string `json:"medicine_name,omitempty"`
}
