package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"medrecord-api/internal/audit"
	"medrecord-api/internal/config"
	mw "medrecord-api/internal/middleware"
	"medrecord-api/internal/model"
	"medrecord-api/internal/scheduling"
	"medrecord-api/internal/session"
	"medrecord-api/internal/store"
)

type Handler struct {
	store    *store.Store
	sessions *session.Manager
	conflict *scheduling.Checker
	audit    *audit.Recorder
	cfg      *config.Config
	log      zerolog.Logger
}

func New(st *store.Store, sessions *session.Manager, conflict *scheduling.Checker, rec *audit.Recorder, cfg *config.Config, log zerolog.Logger) *Handler {
	return &Handler{
		store:    st,
		sessions: sessions,
		conflict: conflict,
		audit:    rec,
		cfg:      cfg,
		log:      log,
	}
}

// Register wires every route. The auth group carries the login rate
// limiter; everything under /api requires a valid access token.
func (h *Handler) Register(e *echo.Echo, authMW echo.MiddlewareFunc, limiter *mw.RateLimiter) {
	authGroup := e.Group("/auth", mw.RateLimit(limiter))
	authGroup.POST("/login", h.Login)
	authGroup.POST("/refresh", h.RefreshToken)
	authGroup.POST("/logout", h.Logout)
	e.GET("/auth/me", h.Me, authMW)

	api := e.Group("/api", authMW)

	anyRole := mw.RequireRole(model.RoleAdmin, model.RoleProvider, model.RolePatient)
	clinical := mw.RequireRole(model.RoleAdmin, model.RoleProvider)
	adminOnly := mw.RequireRole(model.RoleAdmin)

	api.POST("/patients", h.CreatePatient, clinical)
	api.GET("/patients", h.ListPatients, clinical)
	api.GET("/patients/:id", h.GetPatient, anyRole)
	api.GET("/patients/user/:id", h.GetPatientByUser, anyRole)
	api.PUT("/patients/:id", h.UpdatePatient, clinical)
	api.DELETE("/patients/:id", h.DeletePatient, adminOnly)

	api.POST("/providers", h.CreateProvider, adminOnly)
	api.GET("/providers", h.ListProviders, anyRole)
	api.GET("/providers/:id", h.GetProvider, anyRole)
	api.PUT("/providers/:id", h.UpdateProvider, adminOnly)
	api.DELETE("/providers/:id", h.DeleteProvider, adminOnly)

	api.POST("/providers/:id/availability", h.SetAvailability, clinical)
	api.GET("/providers/:id/availability", h.GetAvailability, anyRole)

	api.POST("/appointments", h.CreateAppointment, clinical)
	api.GET("/appointments", h.ListAppointments, anyRole)
	api.GET("/appointments/:id", h.GetAppointment, anyRole)
	api.PUT("/appointments/:id", h.UpdateAppointment, clinical)
	api.DELETE("/appointments/:id", h.CancelAppointment, clinical)

	api.POST("/appointments/:id/notes", h.CreateVisitNote, clinical)
	api.GET("/appointments/:id/notes", h.GetVisitNote, clinical)
	api.POST("/notes/:id/entries", h.AppendVisitNoteEntry, clinical)
	api.GET("/notes/:id/entries", h.ListVisitNoteEntries, clinical)

	api.POST("/appointments/:id/vitals", h.RecordVitals, clinical)
	api.GET("/appointments/:id/vitals", h.ListAppointmentVitals, clinical)
	api.GET("/patients/:id/vitals", h.ListPatientVitals, anyRole)
	api.PUT("/vitals/:id", h.UpdateVitals, clinical)
	api.DELETE("/vitals/:id", h.DeleteVitals, clinical)

	api.POST("/patients/:id/problems", h.CreateProblem, clinical)
	api.GET("/patients/:id/problems", h.ListProblems, clinical)
	api.PUT("/problems/:id", h.UpdateProblem, clinical)

	api.POST("/patients/:id/allergies", h.CreateAllergy, clinical)
	api.GET("/patients/:id/allergies", h.ListAllergies, clinical)
	api.PUT("/allergies/:id", h.UpdateAllergy, clinical)
	api.DELETE("/allergies/:id", h.DeleteAllergy, clinical)

	api.POST("/patients/:id/medications", h.CreateMedication, clinical)
	api.GET("/patients/:id/medications", h.ListMedications, clinical)
	api.PUT("/medications/:id", h.UpdateMedication, clinical)

	api.GET("/audit-logs", h.ListAuditLogs, adminOnly)
}
