package models

import (
	"time"

	"github.com/google/uuid"
)

// Appointment status constants
const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCanceled  = "canceled"
	AppointmentNoShow    = "no_show"
)

// Appointment represents a scheduled patient visit.
// Start and end are stored as instants; the visit date is derived from StartsAt.
type Appointment struct {
	ID        uuid.UUID `json:"id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	PatientID uuid.UUID `json:"patient_id"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Reason    string    `json:"reason,omitempty"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// PatientName is populated on list queries for display.
	PatientName string `json:"patient_name,omitempty"`
}

// ValidAppointmentStatus reports whether s is a recognized appointment status.
func ValidAppointmentStatus(s string) bool {
	switch s {
	case AppointmentScheduled, AppointmentCompleted, AppointmentCanceled, AppointmentNoShow:
		return true
	}
	return false
}

// AppointmentReminder is an appointment joined with the contact details the
// reminder job needs.
type AppointmentReminder struct {
	Appointment
	PatientEmail string `json:"patient_email"`
	DoctorName   string `json:"doctor_name"`
}

// CalendarDay groups a day's appointments for the calendar view.
type CalendarDay struct {
	Date         string        `json:"date"`
	Appointments []Appointment `json:"appointments"`
}
