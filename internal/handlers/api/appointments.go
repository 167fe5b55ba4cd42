package api

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/mkgstf/DocRP-Backend/internal/db"
	"github.com/mkgstf/DocRP-Backend/internal/middleware"
	"github.com/mkgstf/DocRP-Backend/internal/models"
	"github.com/mkgstf/DocRP-Backend/internal/validation"
)

// maxAppointmentSpan caps a single visit's length.
const maxAppointmentSpan = 8 * time.Hour

// AppointmentHandler handles appointment scheduling via JSON API.
type AppointmentHandler struct {
	db *db.DB
}

// NewAppointmentHandler creates a new API appointment handler.
func NewAppointmentHandler(database *db.DB) *AppointmentHandler {
	return &AppointmentHandler{db: database}
}

type appointmentBody struct {
	PatientID string `json:"patient_id"`
	StartsAt  string `json:"starts_at"`
	EndsAt    string `json:"ends_at"`
	Reason    string `json:"reason"`
	Status    string `json:"status"`
	Notes     string `json:"notes"`
}

func (b *appointmentBody) parse() (patientID uuid.UUID, startsAt, endsAt time.Time, msg string, ok bool) {
	patientID, err := uuid.Parse(b.PatientID)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, "invalid patient_id", false
	}
	startsAt, err = time.Parse(time.RFC3339, b.StartsAt)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, "starts_at must be RFC 3339", false
	}
	endsAt, err = time.Parse(time.RFC3339, b.EndsAt)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, "ends_at must be RFC 3339", false
	}
	if valid, m := validation.ValidateTimeRange(startsAt, endsAt, maxAppointmentSpan); !valid {
		return uuid.Nil, time.Time{}, time.Time{}, m, false
	}
	if b.Status != "" && !models.ValidAppointmentStatus(b.Status) {
		return uuid.Nil, time.Time{}, time.Time{}, "invalid status", false
	}
	return patientID, startsAt, endsAt, "", true
}

// Create schedules a new appointment for the authenticated doctor.
func (h *AppointmentHandler) Create(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	var body appointmentBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	patientID, startsAt, endsAt, msg, ok := body.parse()
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	// Patient must belong to this doctor.
	if _, err := h.db.GetPatient(c.Context(), patientID, doctor.ID); err != nil {
		if errors.Is(err, db.ErrPatientNotFound) {
			return jsonError(c, fiber.StatusNotFound, "patient not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch patient")
	}

	appt := &models.Appointment{
		DoctorID:  doctor.ID,
		PatientID: patientID,
		StartsAt:  startsAt,
		EndsAt:    endsAt,
		Reason:    body.Reason,
		Status:    body.Status,
		Notes:     body.Notes,
	}
	if err := h.db.CreateAppointment(c.Context(), appt); err != nil {
		if errors.Is(err, db.ErrAppointmentOverlap) {
			return jsonError(c, fiber.StatusConflict, "appointment overlaps an existing one")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create appointment")
	}

	recordActivity(c, h.db, doctor.ID, "create_appointment", "appointment", &appt.ID)

	return jsonCreated(c, appt)
}

// Get returns a single appointment by ID.
func (h *AppointmentHandler) Get(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid appointment id")
	}

	appt, err := h.db.GetAppointment(c.Context(), id, doctor.ID)
	if err != nil {
		if errors.Is(err, db.ErrAppointmentNotFound) {
			return jsonError(c, fiber.StatusNotFound, "appointment not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch appointment")
	}

	return jsonSuccess(c, appt)
}

// List returns appointments in a time range, defaulting to the next 30 days.
func (h *AppointmentHandler) List(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	now := time.Now()
	from := now.Truncate(24 * time.Hour)
	to := from.AddDate(0, 0, 30)

	if s := c.Query("from", ""); s != "" {
		t, ok := parseDateOrTime(s)
		if !ok {
			return jsonError(c, fiber.StatusBadRequest, "from must be YYYY-MM-DD or RFC 3339")
		}
		from = t
	}
	if s := c.Query("to", ""); s != "" {
		t, ok := parseDateOrTime(s)
		if !ok {
			return jsonError(c, fiber.StatusBadRequest, "to must be YYYY-MM-DD or RFC 3339")
		}
		to = t
	}

	status := c.Query("status", "")
	if status != "" && !models.ValidAppointmentStatus(status) {
		return jsonError(c, fiber.StatusBadRequest, "invalid status")
	}

	var patientID *uuid.UUID
	if s := c.Query("patient_id", ""); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid patient_id")
		}
		patientID = &id
	}

	appts, err := h.db.ListAppointments(c.Context(), doctor.ID, from, to, status, patientID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch appointments")
	}

	return jsonSuccess(c, appts)
}

// Calendar returns a month's appointments grouped by day.
func (h *AppointmentHandler) Calendar(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	now := time.Now()
	year, err := strconv.Atoi(c.Query("year", strconv.Itoa(now.Year())))
	if err != nil || year < 1970 || year > 9999 {
		return jsonError(c, fiber.StatusBadRequest, "invalid year")
	}
	month, err := strconv.Atoi(c.Query("month", strconv.Itoa(int(now.Month()))))
	if err != nil || month < 1 || month > 12 {
		return jsonError(c, fiber.StatusBadRequest, "invalid month")
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	appts, err := h.db.ListAppointments(c.Context(), doctor.ID, from, to, "", nil)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch appointments")
	}

	// ListAppointments orders by start time, so days come out in order.
	var days []models.CalendarDay
	for _, appt := range appts {
		date := appt.StartsAt.UTC().Format(validation.DateLayout)
		if len(days) == 0 || days[len(days)-1].Date != date {
			days = append(days, models.CalendarDay{Date: date})
		}
		days[len(days)-1].Appointments = append(days[len(days)-1].Appointments, appt)
	}

	return jsonSuccess(c, days)
}

// Update reschedules or edits an appointment.
func (h *AppointmentHandler) Update(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid appointment id")
	}

	existing, err := h.db.GetAppointment(c.Context(), id, doctor.ID)
	if err != nil {
		if errors.Is(err, db.ErrAppointmentNotFound) {
			return jsonError(c, fiber.StatusNotFound, "appointment not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch appointment")
	}

	var body appointmentBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	// The patient on an appointment cannot change; reuse the stored one.
	body.PatientID = existing.PatientID.String()
	_, startsAt, endsAt, msg, ok := body.parse()
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	if body.Status == "" {
		body.Status = existing.Status
	}

	existing.StartsAt = startsAt
	existing.EndsAt = endsAt
	existing.Reason = body.Reason
	existing.Status = body.Status
	existing.Notes = body.Notes

	if err := h.db.UpdateAppointment(c.Context(), existing); err != nil {
		if errors.Is(err, db.ErrAppointmentOverlap) {
			return jsonError(c, fiber.StatusConflict, "appointment overlaps an existing one")
		}
		if errors.Is(err, db.ErrAppointmentNotFound) {
			return jsonError(c, fiber.StatusNotFound, "appointment not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update appointment")
	}

	recordActivity(c, h.db, doctor.ID, "update_appointment", "appointment", &existing.ID)

	return jsonSuccess(c, existing)
}

// Delete removes an appointment.
func (h *AppointmentHandler) Delete(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid appointment id")
	}

	if err := h.db.DeleteAppointment(c.Context(), id, doctor.ID); err != nil {
		if errors.Is(err, db.ErrAppointmentNotFound) {
			return jsonError(c, fiber.StatusNotFound, "appointment not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete appointment")
	}

	recordActivity(c, h.db, doctor.ID, "delete_appointment", "appointment", &id)

	return jsonSuccess(c, fiber.Map{"deleted": id})
}

// parseDateOrTime accepts either a bare date or a full RFC 3339 timestamp.
func parseDateOrTime(s string) (time.Time, bool) {
	if t, ok := validation.ParseDate(s); ok {
		return t, true
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
