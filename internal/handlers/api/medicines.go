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

// MedicineHandler handles the medicine catalog via JSON API.
type MedicineHandler struct {
	db      *db.DB
	lookups *lookup.Service
}

// NewMedicineHandler creates a new API medicine handler.
func NewMedicineHandler(database *db.DB, lookups *lookup.Service) *MedicineHandler {
	return &MedicineHandler{db: database, lookups: lookups}
}

type medicineBody struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	DosageForm   string `json:"dosage_form"`
	Strength     string `json:"strength"`
	Manufacturer string `json:"manufacturer"`
}

// Create adds a medicine to the catalog.
func (h *MedicineHandler) Create(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	var body medicineBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !validation.ValidateName(body.Name) {
		return jsonError(c, fiber.StatusBadRequest, "name is required")
	}

	medicine := &models.Medicine{
		Name:         body.Name,
		Description:  body.Description,
		DosageForm:   body.DosageForm,
		Strength:     body.Strength,
		Manufacturer: body.Manufacturer,
	}
	if err := h.db.CreateMedicine(c.Context(), medicine); err != nil {
		if errors.Is(err, db.ErrDuplicateMedicine) {
			return jsonError(c, fiber.StatusConflict, "medicine name already exists")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create medicine")
	}

	if _, _, err := h.lookups.GetOrCreate(c.Context(), models.KindMedicine, medicine.Name); err != nil {
		slog.Error("failed to register medicine for autocomplete", "medicine_id", medicine.ID, "error", err)
	}
	recordActivity(c, h.db, doctor.ID, "create_medicine", "medicine", &medicine.ID)

	return jsonCreated(c, medicine)
}

// Get returns a single medicine by ID.
func (h *MedicineHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid medicine id")
	}

	medicine, err := h.db.GetMedicineByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrMedicineNotFound) {
			return jsonError(c, fiber.StatusNotFound, "medicine not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch medicine")
	}

	return jsonSuccess(c, medicine)
}

// List returns catalog medicines, optionally filtered by a search fragment.
func (h *MedicineHandler) List(c fiber.Ctx) error {
	page, perPage, limit, offset := parsePagination(c)

	medicines, total, err := h.db.ListMedicines(c.Context(), c.Query("q", ""), limit, offset)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch medicines")
	}

	return jsonSuccess(c, models.Page[models.Medicine]{
		Items:   medicines,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}

// Update edits a catalog medicine.
func (h *MedicineHandler) Update(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid medicine id")
	}

	var body medicineBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !validation.ValidateName(body.Name) {
		return jsonError(c, fiber.StatusBadRequest, "name is required")
	}

	medicine := &models.Medicine{
		ID:           id,
		Name:         body.Name,
		Description:  body.Description,
		DosageForm:   body.DosageForm,
		Strength:     body.Strength,
		Manufacturer: body.Manufacturer,
	}
	if err := h.db.UpdateMedicine(c.Context(), medicine); err != nil {
		switch {
		case errors.Is(err, db.ErrMedicineNotFound):
			return jsonError(c, fiber.StatusNotFound, "medicine not found")
		case errors.Is(err, db.ErrDuplicateMedicine):
			return jsonError(c, fiber.StatusConflict, "medicine name already exists")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update medicine")
	}

	recordActivity(c, h.db, doctor.ID, "update_medicine", "medicine", &medicine.ID)

	return jsonSuccess(c, medicine)
}

// Delete removes a catalog medicine.
func (h *MedicineHandler) Delete(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid medicine id")
	}

	if err := h.db.DeleteMedicine(c.Context(), id); err != nil {
		if errors.Is(err, db.ErrMedicineNotFound) {
			return jsonError(c, fiber.StatusNotFound, "medicine not found")
		}
		return jsonError(c, fiber.StatusConflict, "medicine is referenced by prescriptions")
	}

	recordActivity(c, h.db, doctor.ID, "delete_medicine", "medicine", &id)

	return jsonSuccess(c, fiber.Map{"deleted": id})
}

// DosageSuggestion returns the most common way this medicine has been
// prescribed, or null when there is no history.
func (h *MedicineHandler) DosageSuggestion(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid medicine id")
	}

	if _, err := h.db.GetMedicineByID(c.Context(), id); err != nil {
		if errors.Is(err, db.ErrMedicineNotFound) {
			return jsonError(c, fiber.StatusNotFound, "medicine not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch medicine")
	}

	suggestion, err := h.db.SuggestDosage(c.Context(), id)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to compute suggestion")
	}

	return jsonSuccess(c, suggestion)
}
