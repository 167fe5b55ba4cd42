package api

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/mkgstf/DocRP-Backend/internal/db"
	"github.com/mkgstf/DocRP-Backend/internal/lookup"
	"github.com/mkgstf/DocRP-Backend/internal/middleware"
	"github.com/mkgstf/DocRP-Backend/internal/models"
	"github.com/mkgstf/DocRP-Backend/internal/validation"
)

// DiagnosisHandler handles the diagnosis catalog and patient diagnosis
// assignments via JSON API.
type DiagnosisHandler struct {
	db      *db.DB
	lookups *lookup.Service
}

// NewDiagnosisHandler creates a new API diagnosis handler.
func NewDiagnosisHandler(database *db.DB, lookups *lookup.Service) *DiagnosisHandler {
	return &DiagnosisHandler{db: database, lookups: lookups}
}

type diagnosisBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ICDCode     string `json:"icd_code"`
	Category    string `json:"category"`
}

// Create adds a diagnosis to the catalog.
func (h *DiagnosisHandler) Create(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	var body diagnosisBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !validation.ValidateName(body.Name) {
		return jsonError(c, fiber.StatusBadRequest, "name is required")
	}

	diagnosis := &models.Diagnosis{
		Name:        body.Name,
		Description: body.Description,
		ICDCode:     body.ICDCode,
		Category:    body.Category,
	}
	if err := h.db.CreateDiagnosis(c.Context(), diagnosis); err != nil {
		if errors.Is(err, db.ErrDuplicateDiagnosis) {
			return jsonError(c, fiber.StatusConflict, "diagnosis name already exists")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create diagnosis")
	}

	if _, _, err := h.lookups.GetOrCreate(c.Context(), models.KindDiagnosis, diagnosis.Name); err != nil {
		slog.Error("failed to register diagnosis for autocomplete", "diagnosis_id", diagnosis.ID, "error", err)
	}
	recordActivity(c, h.db, doctor.ID, "create_diagnosis", "diagnosis", &diagnosis.ID)

	return jsonCreated(c, diagnosis)
}

// Get returns a single catalog diagnosis by ID.
func (h *DiagnosisHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid diagnosis id")
	}

	diagnosis, err := h.db.GetDiagnosisByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrDiagnosisNotFound) {
			return jsonError(c, fiber.StatusNotFound, "diagnosis not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch diagnosis")
	}

	return jsonSuccess(c, diagnosis)
}

// List returns catalog diagnoses, optionally filtered by a search fragment.
func (h *DiagnosisHandler) List(c fiber.Ctx) error {
	page, perPage, limit, offset := parsePagination(c)

	diagnoses, total, err := h.db.ListDiagnoses(c.Context(), c.Query("q", ""), limit, offset)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch diagnoses")
	}

	return jsonSuccess(c, models.Page[models.Diagnosis]{
		Items:   diagnoses,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}

// Update edits a catalog diagnosis.
func (h *DiagnosisHandler) Update(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid diagnosis id")
	}

	var body diagnosisBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !validation.ValidateName(body.Name) {
		return jsonError(c, fiber.StatusBadRequest, "name is required")
	}

	diagnosis := &models.Diagnosis{
		ID:          id,
		Name:        body.Name,
		Description: body.Description,
		ICDCode:     body.ICDCode,
		Category:    body.Category,
	}
	if err := h.db.UpdateDiagnosis(c.Context(), diagnosis); err != nil {
		switch {
		case errors.Is(err, db.ErrDiagnosisNotFound):
			return jsonError(c, fiber.StatusNotFound, "diagnosis not found")
		case errors.Is(err, db.ErrDuplicateDiagnosis):
			return jsonError(c, fiber.StatusConflict, "diagnosis name already exists")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update diagnosis")
	}

	recordActivity(c, h.db, doctor.ID, "update_diagnosis", "diagnosis", &diagnosis.ID)

	return jsonSuccess(c, diagnosis)
}

// Delete removes a catalog diagnosis.
func (h *DiagnosisHandler) Delete(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid diagnosis id")
	}

	if err := h.db.DeleteDiagnosis(c.Context(), id); err != nil {
		if errors.Is(err, db.ErrDiagnosisNotFound) {
			return jsonError(c, fiber.StatusNotFound, "diagnosis not found")
		}
		return jsonError(c, fiber.StatusConflict, "diagnosis is assigned to patients")
	}

	recordActivity(c, h.db, doctor.ID, "delete_diagnosis", "diagnosis", &id)

	return jsonSuccess(c, fiber.Map{"deleted": id})
}

// AssignToPatient records a diagnosis for one of the doctor's patients.
func (h *DiagnosisHandler) AssignToPatient(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	patientID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid patient id")
	}
	if _, err := h.db.GetPatient(c.Context(), patientID, doctor.ID); err != nil {
		if errors.Is(err, db.ErrPatientNotFound) {
			return jsonError(c, fiber.StatusNotFound, "patient not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch patient")
	}

	var body struct {
		DiagnosisID    string `json:"diagnosis_id"`
		PrescriptionID string `json:"prescription_id"`
		DateDiagnosed  string `json:"date_diagnosed"`
		Status         string `json:"status"`
		Notes          string `json:"notes"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	diagnosisID, err := uuid.Parse(body.DiagnosisID)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid diagnosis_id")
	}
	if _, err := h.db.GetDiagnosisByID(c.Context(), diagnosisID); err != nil {
		if errors.Is(err, db.ErrDiagnosisNotFound) {
			return jsonError(c, fiber.StatusNotFound, "diagnosis not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch diagnosis")
	}

	dateDiagnosed, ok := validation.ParseDate(body.DateDiagnosed)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "date_diagnosed must be YYYY-MM-DD")
	}
	if body.Status != "" && !models.ValidDiagnosisStatus(body.Status) {
		return jsonError(c, fiber.StatusBadRequest, "invalid status")
	}

	var prescriptionID *uuid.UUID
	if body.PrescriptionID != "" {
		id, err := uuid.Parse(body.PrescriptionID)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid prescription_id")
		}
		prescriptionID = &id
	}

	pd := &models.PatientDiagnosis{
		PatientID:      patientID,
		DiagnosisID:    diagnosisID,
		PrescriptionID: prescriptionID,
		DateDiagnosed:  dateDiagnosed,
		Status:         body.Status,
		Notes:          body.Notes,
	}
	if err := h.db.AddPatientDiagnosis(c.Context(), pd); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to assign diagnosis")
	}

	recordActivity(c, h.db, doctor.ID, "assign_diagnosis", "patient_diagnosis", &pd.ID)

	return jsonCreated(c, pd)
}

// ListForPatient returns a patient's diagnosis history.
func (h *DiagnosisHandler) ListForPatient(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	patientID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid patient id")
	}
	if _, err := h.db.GetPatient(c.Context(), patientID, doctor.ID); err != nil {
		if errors.Is(err, db.ErrPatientNotFound) {
			return jsonError(c, fiber.StatusNotFound, "patient not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch patient")
	}

	diagnoses, err := h.db.GetPatientDiagnoses(c.Context(), patientID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch patient diagnoses")
	}

	return jsonSuccess(c, diagnoses)
}

// UpdatePatientDiagnosis edits the status and notes of an assignment.
func (h *DiagnosisHandler) UpdatePatientDiagnosis(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid patient diagnosis id")
	}

	var body struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !models.ValidDiagnosisStatus(body.Status) {
		return jsonError(c, fiber.StatusBadRequest, "invalid status")
	}

	pd := &models.PatientDiagnosis{ID: id, Status: body.Status, Notes: body.Notes}
	if err := h.db.UpdatePatientDiagnosis(c.Context(), pd); err != nil {
		if errors.Is(err, db.ErrPatientDiagnosisNotFound) {
			return jsonError(c, fiber.StatusNotFound, "patient diagnosis not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update patient diagnosis")
	}

	recordActivity(c, h.db, doctor.ID, "update_patient_diagnosis", "patient_diagnosis", &id)

	return jsonSuccess(c, pd)
}

// RemovePatientDiagnosis deletes an assignment.
func (h *DiagnosisHandler) RemovePatientDiagnosis(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid patient diagnosis id")
	}

	if err := h.db.DeletePatientDiagnosis(c.Context(), id); err != nil {
		if errors.Is(err, db.ErrPatientDiagnosisNotFound) {
			return jsonError(c, fiber.StatusNotFound, "patient diagnosis not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to remove patient diagnosis")
	}

	recordActivity(c, h.db, doctor.ID, "remove_patient_diagnosis", "patient_diagnosis", &id)

	return jsonSuccess(c, fiber.Map{"deleted": id})
}
