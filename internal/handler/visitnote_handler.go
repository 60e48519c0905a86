package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"medrecord-api/internal/apperr"
	mw "medrecord-api/internal/middleware"
	"medrecord-api/internal/model"
	"medrecord-api/internal/validate"
)

type visitNoteRequest struct {
	Content string `json:"content"`
}

type visitNoteResponse struct {
	Note   *model.VisitNote      `json:"note"`
	Latest *model.VisitNoteEntry `json:"latest,omitempty"`
}

// CreateVisitNote opens the note for an appointment and writes its
// first entry. One note per appointment.
func (h *Handler) CreateVisitNote(c echo.Context) error {
	ctx := c.Request().Context()
	appointmentID := c.Param("id")

	var req visitNoteRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "malformed request body")
	}
	if err := validate.Required("content", req.Content); err != nil {
		return err
	}

	apt, err := h.store.GetAppointment(ctx, appointmentID)
	if err != nil {
		return err
	}

	if existing, err := h.store.GetVisitNoteByAppointment(ctx, appointmentID); err != nil {
		return err
	} else if existing != nil {
		return apperr.New(apperr.Validation, "a visit note already exists for this appointment")
	}

	note := &model.VisitNote{
		ID:            uuid.NewString(),
		AppointmentID: apt.ID,
		ProviderID:    apt.ProviderID,
		PatientID:     apt.PatientID,
	}
	if err := h.store.CreateVisitNote(ctx, note); err != nil {
		return err
	}

	claims := mw.Claims(c)
	entry, err := h.store.AppendVisitNoteEntry(ctx, note.ID, req.Content, claims.UserID)
	if err != nil {
		return err
	}
	note.LatestVersion = entry.Version

	h.audit.Record(ctx, claims.UserID, claims.Role, "CREATE", "visit_note", note.ID, nil)
	return c.JSON(http.StatusCreated, visitNoteResponse{Note: note, Latest: entry})
}

func (h *Handler) GetVisitNote(c echo.Context) error {
	ctx := c.Request().Context()
	appointmentID := c.Param("id")

	if _, err := h.store.GetAppointment(ctx, appointmentID); err != nil {
		return err
	}
	note, err := h.store.GetVisitNoteByAppointment(ctx, appointmentID)
	if err != nil {
		return err
	}
	if note == nil {
		return apperr.New(apperr.NotFound, "no visit note for this appointment")
	}

	latest, err := h.store.GetLatestVisitNoteEntry(ctx, note.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, visitNoteResponse{Note: note, Latest: latest})
}

// AppendVisitNoteEntry adds a new immutable version. Prior entries are
// never modified.
func (h *Handler) AppendVisitNoteEntry(c echo.Context) error {
	ctx := c.Request().Context()
	noteID := c.Param("id")

	var req visitNoteRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "malformed request body")
	}
	if err := validate.Required("content", req.Content); err != nil {
		return err
	}

	note, err := h.store.GetVisitNote(ctx, noteID)
	if err != nil {
		return err
	}

	claims := mw.Claims(c)
	// only the note's own provider may add versions; admins may always
	if claims.Role == model.RoleProvider && claims.ProviderID != note.ProviderID {
		return apperr.New(apperr.Forbidden, "visit note belongs to another provider")
	}
	entry, err := h.store.AppendVisitNoteEntry(ctx, noteID, req.Content, claims.UserID)
	if err != nil {
		return err
	}

	h.audit.Record(ctx, claims.UserID, claims.Role, "UPDATE", "visit_note", noteID, map[string]int{"version": entry.Version})
	return c.JSON(http.StatusCreated, entry)
}

func (h *Handler) ListVisitNoteEntries(c echo.Context) error {
	ctx := c.Request().Context()
	noteID := c.Param("id")

	if _, err := h.store.GetVisitNote(ctx, noteID); err != nil {
		return err
	}
	entries, err := h.store.ListVisitNoteEntries(ctx, noteID)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []model.VisitNoteEntry{}
	}
	return c.JSON(http.StatusOK, entries)
}
