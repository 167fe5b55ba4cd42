package models

import (
	"time"

	"github.com/google/uuid"
)

// Patient diagnosis status constants
const (
	DiagnosisActive   = "active"
	DiagnosisResolved = "resolved"
	DiagnosisChronic  = "chronic"
)

// Diagnosis represents a medical diagnosis in the shared catalog.
type Diagnosis struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ICDCode     string    `json:"icd_code,omitempty"`
	Category    string    `json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PatientDiagnosis links a diagnosis to a patient with clinical context.
type PatientDiagnosis struct {
	ID             uuid.UUID  `json:"id"`
	PatientID      uuid.UUID  `json:"patient_id"`
	DiagnosisID    uuid.UUID  `json:"diagnosis_id"`
	PrescriptionID *uuid.UUID `json:"prescription_id,omitempty"`
	DateDiagnosed  time.Time  `json:"date_diagnosed"`
	Status         string     `json:"status"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// DiagnosisName is populated on list queries for display.
	DiagnosisName string `json:"diagnosis_name,omitempty"`
}

// ValidDiagnosisStatus reports whether s is a recognized patient diagnosis status.
func ValidDiagnosisStatus(s string) bool {
	switch s {
	case DiagnosisActive, DiagnosisResolved, DiagnosisChronic:
		return true
	}
	return false
}
