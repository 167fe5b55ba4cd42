package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/mkgstf/DocRP-Backend/internal/auth"
	"github.com/mkgstf/DocRP-Backend/internal/db"
	"github.com/mkgstf/DocRP-Backend/internal/models"
)

// AuthMiddleware handles doctor authentication via JWT bearer tokens.
type AuthMiddleware struct {
	issuer *auth.Issuer
	db     *db.DB
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(issuer *auth.Issuer, db *db.DB) *AuthMiddleware {
	return &AuthMiddleware{issuer: issuer, db: db}
}

// RequireAuth verifies the access token and loads the doctor into locals.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	token := ExtractBearerToken(c.Get("Authorization"))
	if token == "" {
		return unauthorized(c, "missing bearer token")
	}

	doctorID, err := m.issuer.Verify(token, auth.TokenAccess)
	if err != nil {
		return unauthorized(c, "invalid or expired token")
	}

	doctor, err := m.db.GetDoctorByID(c.Context(), doctorID)
	if err != nil {
		return unauthorized(c, "unknown account")
	}

	c.Locals("doctor", doctor)
	return c.Next()
}

// Doctor returns the authenticated doctor set by RequireAuth.
func Doctor(c fiber.Ctx) *models.Doctor {
	doctor, _ := c.Locals("doctor").(*models.Doctor)
	return doctor
}

// ExtractBearerToken pulls the token out of an Authorization header value.
// Returns "" when the header is absent or not a bearer scheme.
func ExtractBearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func unauthorized(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"status": "error",
		"error":  msg,
	})
}
