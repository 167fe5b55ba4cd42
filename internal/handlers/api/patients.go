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

// PatientHandler handles patient CRUD operations via JSON API.
type PatientHandler struct {
	db      *db.DB
	lookups *lookup.Service
}

// NewPatientHandler creates a new API patient handler.
func NewPatientHandler(database *db.DB, lookups *lookup.Service) *PatientHandler {
	return &PatientHandler{db: database, lookups: lookups}
}

type patientBody struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	DateOfBirth    string `json:"date_of_birth"`
	Gender         string `json:"gender"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	MedicalHistory string `json:"medical_history"`
	InsuranceInfo  string `json:"insurance_info"`
}

func (b *patientBody) validate() (string, bool) {
	if !validation.ValidateName(b.FirstName) || !validation.ValidateName(b.LastName) {
		return "first and last name are required", false
	}
	if _, ok := validation.ParseDate(b.DateOfBirth); !ok {
		return "date_of_birth must be YYYY-MM-DD", false
	}
	if b.Email != "" && !validation.ValidateEmail(b.Email) {
		return "invalid email address", false
	}
	if !validation.ValidatePhone(b.Phone) {
		return "invalid phone number", false
	}
	return "", true
}

// Create registers a new patient for the authenticated doctor.
func (h *PatientHandler) Create(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	var body patientBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if msg, ok := body.validate(); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	dob, _ := validation.ParseDate(body.DateOfBirth)
	patient := &models.Patient{
		DoctorID:       doctor.ID,
		FirstName:      body.FirstName,
		LastName:       body.LastName,
		DateOfBirth:    dob,
		Gender:         body.Gender,
		Email:          body.Email,
		Phone:          body.Phone,
		Address:        body.Address,
		MedicalHistory: body.MedicalHistory,
		InsuranceInfo:  body.InsuranceInfo,
	}
	if err := h.db.CreatePatient(c.Context(), patient); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to create patient")
	}

	h.registerName(c, patient)
	recordActivity(c, h.db, doctor.ID, "create_patient", "patient", &patient.ID)

	return jsonCreated(c, patient)
}

// registerName makes the patient's full name available to autocomplete.
func (h *PatientHandler) registerName(c fiber.Ctx, patient *models.Patient) {
	if _, _, err := h.lookups.GetOrCreate(c.Context(), models.KindPatient, patient.FullName()); err != nil {
		slog.Error("failed to register patient name for autocomplete", "patient_id", patient.ID, "error", err)
	}
}

// Get returns a single patient by ID.
func (h *PatientHandler) Get(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid patient id")
	}

	patient, err := h.db.GetPatient(c.Context(), id, doctor.ID)
	if err != nil {
		if errors.Is(err, db.ErrPatientNotFound) {
			return jsonError(c, fiber.StatusNotFound, "patient not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch patient")
	}

	return jsonSuccess(c, patient)
}

// List returns the doctor's patients, optionally filtered by a name fragment.
func (h *PatientHandler) List(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)
	page, perPage, limit, offset := parsePagination(c)

	patients, total, err := h.db.ListPatients(c.Context(), doctor.ID, c.Query("q", ""), limit, offset)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch patients")
	}

	return jsonSuccess(c, models.Page[models.Patient]{
		Items:   patients,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}

// Update replaces a patient's editable fields.
func (h *PatientHandler) Update(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid patient id")
	}

	var body patientBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if msg, ok := body.validate(); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	dob, _ := validation.ParseDate(body.DateOfBirth)
	patient := &models.Patient{
		ID:             id,
		DoctorID:       doctor.ID,
		FirstName:      body.FirstName,
		LastName:       body.LastName,
		DateOfBirth:    dob,
		Gender:         body.Gender,
		Email:          body.Email,
		Phone:          body.Phone,
		Address:        body.Address,
		MedicalHistory: body.MedicalHistory,
		InsuranceInfo:  body.InsuranceInfo,
	}
	if err := h.db.UpdatePatient(c.Context(), patient); err != nil {
		if errors.Is(err, db.ErrPatientNotFound) {
			return jsonError(c, fiber.StatusNotFound, "patient not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update patient")
	}

	h.registerName(c, patient)
	recordActivity(c, h.db, doctor.ID, "update_patient", "patient", &patient.ID)

	return jsonSuccess(c, patient)
}

// Delete removes a patient and all dependent records.
func (h *PatientHandler) Delete(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid patient id")
	}

	if err := h.db.DeletePatient(c.Context(), id, doctor.ID); err != nil {
		if errors.Is(err, db.ErrPatientNotFound) {
			return jsonError(c, fiber.StatusNotFound, "patient not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete patient")
	}

	recordActivity(c, h.db, doctor.ID, "delete_patient", "patient", &id)

	return jsonSuccess(c, fiber.Map{"deleted": id})
}
