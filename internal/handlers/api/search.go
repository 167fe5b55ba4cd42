package api

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/mkgstf/DocRP-Backend/internal/lookup"
	"github.com/mkgstf/DocRP-Backend/internal/models"
)

// SearchHandler exposes autocomplete suggestions via JSON API.
type SearchHandler struct {
	lookups *lookup.Service
}

// NewSearchHandler creates a new API search handler.
func NewSearchHandler(lookups *lookup.Service) *SearchHandler {
	return &SearchHandler{lookups: lookups}
}

// Suggest returns ranked suggestions for a kind. An empty q returns the
// most used entries.
func (h *SearchHandler) Suggest(c fiber.Ctx) error {
	return h.suggest(c, c.Params("kind"))
}

// SuggestFor returns a handler serving suggestions for a fixed kind, used
// by the per-entity search routes.
func (h *SearchHandler) SuggestFor(kind string) fiber.Handler {
	return func(c fiber.Ctx) error {
		return h.suggest(c, kind)
	}
}

func (h *SearchHandler) suggest(c fiber.Ctx, kind string) error {
	limit, _ := strconv.Atoi(c.Query("limit", "0"))

	entries, err := h.lookups.Search(c.Context(), kind, c.Query("q", ""), limit)
	if err != nil {
		if errors.Is(err, lookup.ErrInvalidKind) {
			return jsonError(c, fiber.StatusBadRequest, "invalid suggestion kind")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch suggestions")
	}

	results := make([]models.SuggestionResult, 0, len(entries))
	for _, e := range entries {
		results = append(results, models.SuggestionResult{
			ID:         e.ID.String(),
			Text:       e.Text,
			Kind:       e.Kind,
			UsageCount: e.UsageCount,
		})
	}
	return jsonSuccess(c, results)
}

// RecordSelection bumps the usage count of a chosen suggestion.
func (h *SearchHandler) RecordSelection(c fiber.Ctx) error {
	var body struct {
		EntryID string `json:"entry_id"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	id, err := uuid.Parse(body.EntryID)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid entry_id")
	}

	entry, err := h.lookups.RecordSelection(c.Context(), id)
	if err != nil {
		if errors.Is(err, lookup.ErrNotFound) {
			return jsonError(c, fiber.StatusNotFound, "suggestion entry not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to record selection")
	}

	return jsonSuccess(c, entry)
}

// GetOrCreate resolves free text to a suggestion entry, creating it when
// no entry with the same normalized text exists for the kind.
func (h *SearchHandler) GetOrCreate(c fiber.Ctx) error {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	entry, created, err := h.lookups.GetOrCreate(c.Context(), c.Params("kind"), body.Text)
	if err != nil {
		switch {
		case errors.Is(err, lookup.ErrInvalidKind):
			return jsonError(c, fiber.StatusBadRequest, "invalid suggestion kind")
		case errors.Is(err, lookup.ErrEmptyText):
			return jsonError(c, fiber.StatusBadRequest, "text is required")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to resolve entry")
	}

	return jsonSuccess(c, fiber.Map{
		"entry":   entry,
		"created": created,
	})
}
