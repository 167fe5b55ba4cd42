package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/crypto/bcrypt"

	"github.com/mkgstf/DocRP-Backend/internal/auth"
	"github.com/mkgstf/DocRP-Backend/internal/db"
	"github.com/mkgstf/DocRP-Backend/internal/email"
	"github.com/mkgstf/DocRP-Backend/internal/middleware"
	"github.com/mkgstf/DocRP-Backend/internal/models"
	"github.com/mkgstf/DocRP-Backend/internal/validation"
)

// AuthHandler handles doctor registration, login, and profile management.
type AuthHandler struct {
	db       *db.DB
	issuer   *auth.Issuer
	notifier *email.Notifier
}

// NewAuthHandler creates a new API auth handler.
func NewAuthHandler(database *db.DB, issuer *auth.Issuer, notifier *email.Notifier) *AuthHandler {
	return &AuthHandler{db: database, issuer: issuer, notifier: notifier}
}

// Register creates a doctor account and returns tokens plus the profile.
func (h *AuthHandler) Register(c fiber.Ctx) error {
	var body struct {
		Email          string `json:"email"`
		Username       string `json:"username"`
		Password       string `json:"password"`
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		Specialization string `json:"specialization"`
		Phone          string `json:"phone"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if !validation.ValidateEmail(body.Email) {
		return jsonError(c, fiber.StatusBadRequest, "invalid email address")
	}
	if !validation.ValidateUsername(body.Username) {
		return jsonError(c, fiber.StatusBadRequest, "username must be 3-50 characters of letters, numbers, hyphens, and underscores")
	}
	if valid, msg := validation.ValidatePassword(body.Password); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	if !validation.ValidateName(body.FirstName) || !validation.ValidateName(body.LastName) {
		return jsonError(c, fiber.StatusBadRequest, "first and last name are required")
	}
	if !validation.ValidatePhone(body.Phone) {
		return jsonError(c, fiber.StatusBadRequest, "invalid phone number")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to hash password")
	}

	doctor := &models.Doctor{
		Email:          body.Email,
		Username:       body.Username,
		PasswordHash:   string(hash),
		FirstName:      body.FirstName,
		LastName:       body.LastName,
		Specialization: body.Specialization,
		Phone:          body.Phone,
	}
	if err := h.db.CreateDoctor(c.Context(), doctor); err != nil {
		if errors.Is(err, db.ErrDuplicateDoctor) {
			return jsonError(c, fiber.StatusConflict, "email or username already registered")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create account")
	}

	access, refresh, err := h.issuer.IssuePair(doctor.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to issue tokens")
	}

	recordActivity(c, h.db, doctor.ID, "register", "doctor", &doctor.ID)
	h.notifier.NotifyDoctorRegistered(doctor)

	return jsonCreated(c, models.LoginResponse{
		TokenPair: models.TokenPair{AccessToken: access, RefreshToken: refresh},
		Doctor:    doctor,
	})
}

// Login verifies credentials and returns tokens plus the profile.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if body.Username == "" || body.Password == "" {
		return jsonError(c, fiber.StatusBadRequest, "username and password are required")
	}

	doctor, err := h.db.GetDoctorByUsername(c.Context(), body.Username)
	if err != nil {
		if errors.Is(err, db.ErrDoctorNotFound) {
			return jsonError(c, fiber.StatusUnauthorized, "invalid credentials")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch account")
	}

	if !doctor.Active {
		return jsonError(c, fiber.StatusForbidden, "account is deactivated")
	}

	if bcrypt.CompareHashAndPassword([]byte(doctor.PasswordHash), []byte(body.Password)) != nil {
		return jsonError(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	access, refresh, err := h.issuer.IssuePair(doctor.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to issue tokens")
	}

	recordActivity(c, h.db, doctor.ID, "login", "doctor", &doctor.ID)

	return jsonSuccess(c, models.LoginResponse{
		TokenPair: models.TokenPair{AccessToken: access, RefreshToken: refresh},
		Doctor:    doctor,
	})
}

// Refresh exchanges a valid refresh token for a new token pair.
func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	doctorID, err := h.issuer.Verify(body.RefreshToken, auth.TokenRefresh)
	if err != nil {
		return jsonError(c, fiber.StatusUnauthorized, "invalid or expired refresh token")
	}

	doctor, err := h.db.GetDoctorByID(c.Context(), doctorID)
	if err != nil || !doctor.Active {
		return jsonError(c, fiber.StatusUnauthorized, "unknown account")
	}

	access, refresh, err := h.issuer.IssuePair(doctor.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to issue tokens")
	}

	return jsonSuccess(c, models.TokenPair{AccessToken: access, RefreshToken: refresh})
}

// Me returns the authenticated doctor's profile.
func (h *AuthHandler) Me(c fiber.Ctx) error {
	return jsonSuccess(c, middleware.Doctor(c))
}

// UpdateProfile updates the authenticated doctor's profile fields.
func (h *AuthHandler) UpdateProfile(c fiber.Ctx) error {
	doctor := middleware.Doctor(c)

	var body struct {
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		Specialization string `json:"specialization"`
		Phone          string `json:"phone"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if !validation.ValidateName(body.FirstName) || !validation.ValidateName(body.LastName) {
		return jsonError(c, fiber.StatusBadRequest, "first and last name are required")
	}
	if !validation.ValidatePhone(body.Phone) {
		return jsonError(c, fiber.StatusBadRequest, "invalid phone number")
	}

	doctor.FirstName = body.FirstName
	doctor.LastName = body.LastName
	doctor.Specialization = body.Specialization
	doctor.Phone = body.Phone

	if err := h.db.UpdateDoctorProfile(c.Context(), doctor); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to update profile")
	}

	recordActivity(c, h.db, doctor.ID, "update_profile", "doctor", &doctor.ID)

	return jsonSuccess(c, doctor)
}
