package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/mkgstf/DocRP-Backend/internal/db"
	"github.com/mkgstf/DocRP-Backend/internal/models"
)

// recordActivity writes an audit trail entry. Failures are logged, never
// surfaced: the audit trail must not break the request that caused it.
func recordActivity(c fiber.Ctx, database *db.DB, doctorID uuid.UUID, action, entityType string, entityID *uuid.UUID) {
	entry := &models.ActivityLog{
		DoctorID:   doctorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		IPAddress:  c.IP(),
	}
	if err := database.InsertActivity(c.Context(), entry); err != nil {
		slog.Error("failed to record activity", "action", action, "error", err)
	}
}
