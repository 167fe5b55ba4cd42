package db

import (
	"errors"

	"github.com/mkgstf/DocRP-Backend/internal/lookup"
)

// Domain-level database error sentinels.
var (
	// Doctor errors
	ErrDoctorNotFound  = errors.New("doctor not found")
	ErrDuplicateDoctor = errors.New("email or username already registered")

	// Patient errors
	ErrPatientNotFound = errors.New("patient not found")

	// Appointment errors
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrAppointmentOverlap  = errors.New("appointment overlaps an existing one")

	// Medicine errors
	ErrMedicineNotFound  = errors.New("medicine not found")
	ErrDuplicateMedicine = errors.New("medicine name already exists")

	// Diagnosis errors
	ErrDiagnosisNotFound        = errors.New("diagnosis not found")
	ErrDuplicateDiagnosis       = errors.New("diagnosis name already exists")
	ErrPatientDiagnosisNotFound = errors.New("patient diagnosis not found")

	// Prescription errors
	ErrPrescriptionNotFound = errors.New("prescription not found")

	// Note errors
	ErrNoteNotFound = errors.New("note not found")
	ErrDuplicateTag = errors.New("tag name already exists")

	// Lookup entry errors. Shares the lookup package sentinel so callers
	// can match with errors.Is on either side.
	ErrLookupEntryNotFound = lookup.ErrNotFound
)
