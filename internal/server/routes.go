package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mkgstf/DocRP-Backend/internal/auth"
	"github.com/mkgstf/DocRP-Backend/internal/db"
	"github.com/mkgstf/DocRP-Backend/internal/email"
	"github.com/mkgstf/DocRP-Backend/internal/handlers/api"
	"github.com/mkgstf/DocRP-Backend/internal/lookup"
	"github.com/mkgstf/DocRP-Backend/internal/middleware"
	"github.com/mkgstf/DocRP-Backend/internal/models"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(database *db.DB, notifier *email.Notifier) {
	issuer := auth.NewIssuer(s.Cfg.JWTSecret, s.Cfg.AccessTokenTTL, s.Cfg.RefreshTokenTTL)
	lookups := lookup.NewService(database, s.Cfg.SearchLimitMax)

	authMiddleware := middleware.NewAuthMiddleware(issuer, database)

	authHandler := api.NewAuthHandler(database, issuer, notifier)
	patientHandler := api.NewPatientHandler(database, lookups)
	appointmentHandler := api.NewAppointmentHandler(database)
	medicineHandler := api.NewMedicineHandler(database, lookups)
	diagnosisHandler := api.NewDiagnosisHandler(database, lookups)
	prescriptionHandler := api.NewPrescriptionHandler(database, lookups)
	noteHandler := api.NewNoteHandler(database)
	searchHandler := api.NewSearchHandler(lookups)
	statsHandler := api.NewStatsHandler(database)
	healthHandler := api.NewHealthHandler(database)

	// Operational endpoints
	s.App.Get("/healthz", healthHandler.Live)
	s.App.Get("/readyz", healthHandler.Ready)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Public auth routes
	s.App.Post("/api/auth/register", authHandler.Register)
	s.App.Post("/api/auth/login", authHandler.Login)
	s.App.Post("/api/auth/refresh", authHandler.Refresh)

	// Everything below requires a valid access token
	g := s.App.Group("/api", authMiddleware.RequireAuth)

	g.Get("/auth/me", authHandler.Me)
	g.Put("/auth/me", authHandler.UpdateProfile)

	// Search routes before :id so "search" is not parsed as an entity ID
	g.Get("/patients/search", searchHandler.SuggestFor(models.KindPatient))
	g.Get("/medicines/search", searchHandler.SuggestFor(models.KindMedicine))
	g.Get("/diagnoses/search", searchHandler.SuggestFor(models.KindDiagnosis))

	g.Post("/patients", patientHandler.Create)
	g.Get("/patients", patientHandler.List)
	g.Get("/patients/:id", patientHandler.Get)
	g.Put("/patients/:id", patientHandler.Update)
	g.Delete("/patients/:id", patientHandler.Delete)

	g.Post("/patients/:id/diagnoses", diagnosisHandler.AssignToPatient)
	g.Get("/patients/:id/diagnoses", diagnosisHandler.ListForPatient)
	g.Put("/patient-diagnoses/:id", diagnosisHandler.UpdatePatientDiagnosis)
	g.Delete("/patient-diagnoses/:id", diagnosisHandler.RemovePatientDiagnosis)

	// Calendar before :id so "calendar" is not parsed as an appointment ID
	g.Get("/appointments/calendar", appointmentHandler.Calendar)
	g.Post("/appointments", appointmentHandler.Create)
	g.Get("/appointments", appointmentHandler.List)
	g.Get("/appointments/:id", appointmentHandler.Get)
	g.Put("/appointments/:id", appointmentHandler.Update)
	g.Delete("/appointments/:id", appointmentHandler.Delete)

	g.Post("/medicines", medicineHandler.Create)
	g.Get("/medicines", medicineHandler.List)
	g.Get("/medicines/:id", medicineHandler.Get)
	g.Put("/medicines/:id", medicineHandler.Update)
	g.Delete("/medicines/:id", medicineHandler.Delete)
	g.Get("/medicines/:id/dosage-suggestion", medicineHandler.DosageSuggestion)

	g.Post("/diagnoses", diagnosisHandler.Create)
	g.Get("/diagnoses", diagnosisHandler.List)
	g.Get("/diagnoses/:id", diagnosisHandler.Get)
	g.Put("/diagnoses/:id", diagnosisHandler.Update)
	g.Delete("/diagnoses/:id", diagnosisHandler.Delete)

	g.Post("/prescriptions", prescriptionHandler.Create)
	g.Get("/prescriptions", prescriptionHandler.List)
	g.Get("/prescriptions/:id", prescriptionHandler.Get)
	g.Put("/prescriptions/:id", prescriptionHandler.Update)
	g.Delete("/prescriptions/:id", prescriptionHandler.Delete)
	g.Get("/prescriptions/:id/export.csv", prescriptionHandler.ExportCSV)

	g.Post("/notes", noteHandler.Create)
	g.Get("/notes", noteHandler.List)
	g.Get("/notes/:id", noteHandler.Get)
	g.Put("/notes/:id", noteHandler.Update)
	g.Delete("/notes/:id", noteHandler.Delete)
	g.Post("/tags", noteHandler.CreateTag)
	g.Get("/tags", noteHandler.ListTags)

	// Selection before :kind so "selection" is not parsed as a kind
	g.Post("/suggest/selection", searchHandler.RecordSelection)
	g.Get("/suggest/:kind", searchHandler.Suggest)
	g.Post("/suggest/:kind", searchHandler.GetOrCreate)

	g.Get("/stats/overview", statsHandler.Overview)
	g.Get("/stats/appointments", statsHandler.Appointments)
	g.Get("/stats/appointments.csv", statsHandler.AppointmentsCSV)
	g.Get("/stats/top-diagnoses", statsHandler.TopDiagnoses)
	g.Get("/stats/top-medicines", statsHandler.TopMedicines)
	g.Get("/stats/activity", statsHandler.RecentActivity)
}
