package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/mkgstf/DocRP-Backend/internal/db"
	"github.com/mkgstf/DocRP-Backend/internal/lookup"
	"github.com/mkgstf/DocRP-Backend/internal/middleware"
	"github.com/mkgstf/DocRP-Backend/internal/models"
	"github.com/mkgstf/DocRP-Backend/internal/validation"
)

// PrescriptionHandler handles prescriptions via JSON API.
type PrescriptionHandler struct {
	db      *db.DB
	lookups *lookup.Service
}

// NewPrescriptionHandler creates a new API prescription handler.
func NewPrescriptionHandler(database *db.DB, lookups *lookup.Service) *PrescriptionHandler {
	return &PrescriptionHandler{db: database, lookups: lookups}
}

type prescriptionItemBody struct {
	MedicineID   string `json:"medicine_id"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions"`
}

type prescriptionBody struct {
	PatientID     string                 `json:"patient_id"`
	AppointmentID string                 `json:"appointment_id"`
	IssueDate     string                 `json:"issue_date"`
	ExpiryDate    string                 `json:"expiry_date"`
	Notes         string                 `json:"notes"`
	Items         []prescriptionItemBody `json:"items"`
}

func (h *PrescriptionHandler) buildItems(c fiber.Ctx, bodies []prescriptionItemBody) ([]models.PrescriptionItem, string, bool) {
	if len(bodies) == 0 {
		return nil, "at least one item is required", false
	}

	items := make([]models.PrescriptionItem, 0, len(bodies))
	for _, b := range bodies {
		medicineID, err := uuid.Parse(b.MedicineID)
		if err != nil {
			return nil, "invalid medicine_id", false
		}
		medicine, err := h.db.GetMedicineByID(c.Context(), medicineID)
		if err != nil {
			if errors.Is(err, db.ErrMedicineNotFound) {
				return nil, "medicine not found: " + b.MedicineID, false
			}
			return nil, "failed to fetch medicine", false
		}
		if b.Dosage == "" || b.Frequency == "" {
			return nil, "dosage and frequency are required for every item", false
		}
		items = append(items, models.PrescriptionItem{
			MedicineID:   medicine.ID,
			MedicineName: medicine.Name,
			Dosage:       b.Dosage,
			Frequency:    b.Frequency,
			Duration:     b.Duration,
			Instructions: b.Instructions,
		})
	}
	return items, "", true
}

// Create issues a prescription with its medicine items. Every prescribed
// medicine counts as an autocomplete selection.
func (h *PrescriptionHandler) Create(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	var body prescriptionBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	patientID, err := uuid.Parse(body.PatientID)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid patient_id")
	}
	if _, err := h.db.GetPatient(c.Context(), patientID, doctor.ID); err != nil {
		if errors.Is(err, db.ErrPatientNotFound) {
			return jsonError(c, fiber.StatusNotFound, "patient not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch patient")
	}

	issueDate := time.Now()
	if body.IssueDate != "" {
		d, ok := validation.ParseDate(body.IssueDate)
		if !ok {
			return jsonError(c, fiber.StatusBadRequest, "issue_date must be YYYY-MM-DD")
		}
		issueDate = d
	}

	var expiryDate *time.Time
	if body.ExpiryDate != "" {
		d, ok := validation.ParseDate(body.ExpiryDate)
		if !ok {
			return jsonError(c, fiber.StatusBadRequest, "expiry_date must be YYYY-MM-DD")
		}
		if !d.After(issueDate) {
			return jsonError(c, fiber.StatusBadRequest, "expiry_date must be after issue_date")
		}
		expiryDate = &d
	}

	var appointmentID *uuid.UUID
	if body.AppointmentID != "" {
		id, err := uuid.Parse(body.AppointmentID)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid appointment_id")
		}
		if _, err := h.db.GetAppointment(c.Context(), id, doctor.ID); err != nil {
			if errors.Is(err, db.ErrAppointmentNotFound) {
				return jsonError(c, fiber.StatusNotFound, "appointment not found")
			}
			return jsonError(c, fiber.StatusInternalServerError, "failed to fetch appointment")
		}
		appointmentID = &id
	}

	items, msg, ok := h.buildItems(c, body.Items)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	prescription := &models.Prescription{
		DoctorID:      doctor.ID,
		PatientID:     patientID,
		AppointmentID: appointmentID,
		IssueDate:     issueDate,
		ExpiryDate:    expiryDate,
		Notes:         body.Notes,
		Items:         items,
	}
	if err := h.db.CreatePrescription(c.Context(), prescription); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to create prescription")
	}

	h.recordSelections(c, prescription.Items)
	recordActivity(c, h.db, doctor.ID, "create_prescription", "prescription", &prescription.ID)

	return jsonCreated(c, prescription)
}

// recordSelections bumps autocomplete usage for each prescribed medicine.
func (h *PrescriptionHandler) recordSelections(c fiber.Ctx, items []models.PrescriptionItem) {
	for _, item := range items {
		entry, _, err := h.lookups.GetOrCreate(c.Context(), models.KindMedicine, item.MedicineName)
		if err != nil {
			slog.Error("failed to resolve medicine lookup entry", "medicine", item.MedicineName, "error", err)
			continue
		}
		if _, err := h.lookups.RecordSelection(c.Context(), entry.ID); err != nil {
			slog.Error("failed to record medicine selection", "medicine", item.MedicineName, "error", err)
		}
	}
}

// Get returns a prescription with its items.
func (h *PrescriptionHandler) Get(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid prescription id")
	}

	prescription, err := h.db.GetPrescription(c.Context(), id, doctor.ID)
	if err != nil {
		if errors.Is(err, db.ErrPrescriptionNotFound) {
			return jsonError(c, fiber.StatusNotFound, "prescription not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch prescription")
	}

	return jsonSuccess(c, prescription)
}

// List returns the doctor's prescriptions, optionally filtered by patient.
func (h *PrescriptionHandler) List(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)
	page, perPage, limit, offset := parsePagination(c)

	var patientID *uuid.UUID
	if s := c.Query("patient_id", ""); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid patient_id")
		}
		patientID = &id
	}

	prescriptions, total, err := h.db.ListPrescriptions(c.Context(), doctor.ID, patientID, limit, offset)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch prescriptions")
	}

	return jsonSuccess(c, models.Page[models.Prescription]{
		Items:   prescriptions,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}

// Update replaces a prescription's fields and items.
func (h *PrescriptionHandler) Update(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid prescription id")
	}

	existing, err := h.db.GetPrescription(c.Context(), id, doctor.ID)
	if err != nil {
		if errors.Is(err, db.ErrPrescriptionNotFound) {
			return jsonError(c, fiber.StatusNotFound, "prescription not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch prescription")
	}

	var body prescriptionBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if body.IssueDate != "" {
		d, ok := validation.ParseDate(body.IssueDate)
		if !ok {
			return jsonError(c, fiber.StatusBadRequest, "issue_date must be YYYY-MM-DD")
		}
		existing.IssueDate = d
	}
	if body.ExpiryDate != "" {
		d, ok := validation.ParseDate(body.ExpiryDate)
		if !ok {
			return jsonError(c, fiber.StatusBadRequest, "expiry_date must be YYYY-MM-DD")
		}
		existing.ExpiryDate = &d
	}
	existing.Notes = body.Notes

	items, msg, ok := h.buildItems(c, body.Items)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	existing.Items = items

	if err := h.db.UpdatePrescription(c.Context(), existing); err != nil {
		if errors.Is(err, db.ErrPrescriptionNotFound) {
			return jsonError(c, fiber.StatusNotFound, "prescription not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update prescription")
	}

	recordActivity(c, h.db, doctor.ID, "update_prescription", "prescription", &existing.ID)

	return jsonSuccess(c, existing)
}

// Delete removes a prescription and its items.
func (h *PrescriptionHandler) Delete(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid prescription id")
	}

	if err := h.db.DeletePrescription(c.Context(), id, doctor.ID); err != nil {
		if errors.Is(err, db.ErrPrescriptionNotFound) {
			return jsonError(c, fiber.StatusNotFound, "prescription not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete prescription")
	}

	recordActivity(c, h.db, doctor.ID, "delete_prescription", "prescription", &id)

	return jsonSuccess(c, fiber.Map{"deleted": id})
}

// ExportCSV downloads a prescription's items as a CSV file.
func (h *PrescriptionHandler) ExportCSV(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid prescription id")
	}

	prescription, err := h.db.GetPrescription(c.Context(), id, doctor.ID)
	if err != nil {
		if errors.Is(err, db.ErrPrescriptionNotFound) {
			return jsonError(c, fiber.StatusNotFound, "prescription not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch prescription")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"medicine", "dosage", "frequency", "duration", "instructions"})
	for _, item := range prescription.Items {
		_ = w.Write([]string{item.MedicineName, item.Dosage, item.Frequency, item.Duration, item.Instructions})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", `attachment; filename="prescription-`+prescription.ID.String()+`.csv"`)
	return c.Send(buf.Bytes())
}
