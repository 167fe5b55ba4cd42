package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/mkgstf/DocRP-Backend/internal/db"
	"github.com/mkgstf/DocRP-Backend/internal/middleware"
	"github.com/mkgstf/DocRP-Backend/internal/models"
)

// NoteHandler handles clinical notes and tags via JSON API.
type NoteHandler struct {
	db *db.DB
}

// NewNoteHandler creates a new API note handler.
func NewNoteHandler(database *db.DB) *NoteHandler {
	return &NoteHandler{db: database}
}

type noteBody struct {
	PatientID     string   `json:"patient_id"`
	AppointmentID string   `json:"appointment_id"`
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	Category      string   `json:"category"`
	TagIDs        []string `json:"tag_ids"`
}

func parseTagIDs(raw []string) ([]uuid.UUID, bool) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

// Create records a clinical note about a patient.
func (h *NoteHandler) Create(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	var body noteBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if body.Content == "" {
		return jsonError(c, fiber.StatusBadRequest, "content is required")
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

	var appointmentID *uuid.UUID
	if body.AppointmentID != "" {
		id, err := uuid.Parse(body.AppointmentID)
		if err != nil {
			return jsonError(c, fiber.StatusBadRequest, "invalid appointment_id")
		}
		appointmentID = &id
	}

	tagIDs, ok := parseTagIDs(body.TagIDs)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid tag id")
	}

	note := &models.Note{
		DoctorID:      doctor.ID,
		PatientID:     patientID,
		AppointmentID: appointmentID,
		Title:         body.Title,
		Content:       body.Content,
		Category:      body.Category,
	}
	if err := h.db.CreateNote(c.Context(), note, tagIDs); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to create note")
	}

	recordActivity(c, h.db, doctor.ID, "create_note", "note", &note.ID)

	return jsonCreated(c, note)
}

// Get returns a note with its tags.
func (h *NoteHandler) Get(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid note id")
	}

	note, err := h.db.GetNote(c.Context(), id, doctor.ID)
	if err != nil {
		if errors.Is(err, db.ErrNoteNotFound) {
			return jsonError(c, fiber.StatusNotFound, "note not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch note")
	}

	return jsonSuccess(c, note)
}

// List returns the doctor's notes, optionally filtered by patient and category.
func (h *NoteHandler) List(c fiber.Ctx) error {
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

	notes, total, err := h.db.ListNotes(c.Context(), doctor.ID, patientID, c.Query("category", ""), limit, offset)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch notes")
	}

	return jsonSuccess(c, models.Page[models.Note]{
		Items:   notes,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}

// Update edits a note and replaces its tags.
func (h *NoteHandler) Update(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid note id")
	}

	var body noteBody
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if body.Content == "" {
		return jsonError(c, fiber.StatusBadRequest, "content is required")
	}

	tagIDs, ok := parseTagIDs(body.TagIDs)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid tag id")
	}

	note := &models.Note{
		ID:       id,
		DoctorID: doctor.ID,
		Title:    body.Title,
		Content:  body.Content,
		Category: body.Category,
	}
	if err := h.db.UpdateNote(c.Context(), note, tagIDs); err != nil {
		if errors.Is(err, db.ErrNoteNotFound) {
			return jsonError(c, fiber.StatusNotFound, "note not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update note")
	}

	recordActivity(c, h.db, doctor.ID, "update_note", "note", &note.ID)

	return jsonSuccess(c, note)
}

// Delete removes a note.
func (h *NoteHandler) Delete(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid note id")
	}

	if err := h.db.DeleteNote(c.Context(), id, doctor.ID); err != nil {
		if errors.Is(err, db.ErrNoteNotFound) {
			return jsonError(c, fiber.StatusNotFound, "note not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete note")
	}

	recordActivity(c, h.db, doctor.ID, "delete_note", "note", &id)

	return jsonSuccess(c, fiber.Map{"deleted": id})
}

// CreateTag adds a note tag.
func (h *NoteHandler) CreateTag(c fiber.Ctx) error {
	var body struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if body.Name == "" {
		return jsonError(c, fiber.StatusBadRequest, "name is required")
	}

	tag := &models.Tag{Name: body.Name, Color: body.Color}
	if err := h.db.CreateTag(c.Context(), tag); err != nil {
		if errors.Is(err, db.ErrDuplicateTag) {
			return jsonError(c, fiber.StatusConflict, "tag name already exists")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create tag")
	}

	return jsonCreated(c, tag)
}

// ListTags returns all note tags.
func (h *NoteHandler) ListTags(c fiber.Ctx) error {
	tags, err := h.db.ListTags(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch tags")
	}
	return jsonSuccess(c, tags)
}
