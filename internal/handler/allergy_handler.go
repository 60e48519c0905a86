package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"medrecord-api/internal/apperr"
	mw "medrecord-api/internal/middleware"
	"medrecord-api/internal/model"
	"medrecord-api/internal/validate"
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

type allergyRequest struct {
	Category  string `json:"category"`
	Substance string `json:"substance"`
	Reaction  string `json:"reaction"`
	Severity  string `json:"severity"`
	Notes     string `json:"notes"`
}

func (h *Handler) CreateAllergy(c echo.Context) error {
	ctx := c.Request().Context()
	patientID := c.Param("id")

	var req allergyRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "malformed request body")
	}
	if err := validate.Required("substance", req.Substance); err != nil {
		return err
	}
	category := model.AllergyCategory(req.Category)
	if !category.Valid() {
		return apperr.New(apperr.Validation, "category must be FOOD, MEDICATION, ENVIRONMENTAL or OTHER")
	}
	var severity *model.AllergySeverity
	if req.Severity != "" {
		s := model.AllergySeverity(req.Severity)
		if !s.Valid() {
			return apperr.New(apperr.Validation, "severity must be MILD, MODERATE or SEVERE")
		}
		severity = &s
	}

	if _, err := h.store.GetPatient(ctx, patientID); err != nil {
		return err
	}

	claims := mw.Claims(c)
	a := &model.Allergy{
		ID:           uuid.NewString(),
		PatientID:    patientID,
		RecordedByID: claims.UserID,
		Category:     category,
		Substance:    req.Substance,
		Reaction:     req.Reaction,
		Severity:     severity,
		Notes:        req.Notes,
	}
	if err := h.store.CreateAllergy(ctx, a); err != nil {
		return err
	}

	h.audit.Record(ctx, claims.UserID, claims.Role, "CREATE", "allergy", a.ID, a)
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) ListAllergies(c echo.Context) error {
	ctx := c.Request().Context()
	patientID := c.Param("id")

	if _, err := h.store.GetPatient(ctx, patientID); err != nil {
		return err
	}
	allergies, err := h.store.ListAllergiesByPatient(ctx, patientID)
	if err != nil {
		return err
	}
	// the chart view wants allergies bucketed by category
	grouped := map[model.AllergyCategory][]model.Allergy{}
	for _, a := range allergies {
		grouped[a.Category] = append(grouped[a.Category], a)
	}
	return c.JSON(http.StatusOK, grouped)
}

func (h *Handler) UpdateAllergy(c echo.Context) error {
	ctx := c.Request().Context()

	a, err := h.store.GetAllergy(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	var req allergyRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "malformed request body")
	}
	if req.Category != "" {
		category := model.AllergyCategory(req.Category)
		if !category.Valid() {
			return apperr.New(apperr.Validation, "category must be FOOD, MEDICATION, ENVIRONMENTAL or OTHER")
		}
		a.Category = category
	}
	if req.Substance != "" {
		a.Substance = req.Substance
	}
	if req.Reaction != "" {
		a.Reaction = req.Reaction
	}
	if req.Severity != "" {
		s := model.AllergySeverity(req.Severity)
		if !s.Valid() {
			return apperr.New(apperr.Validation, "severity must be MILD, MODERATE or SEVERE")
		}
		a.Severity = &s
	}
	if req.Notes != "" {
		a.Notes = req.Notes
	}

	if err := h.store.UpdateAllergy(ctx, a); err != nil {
		return err
	}

	claims := mw.Claims(c)
	h.audit.Record(ctx, claims.UserID, claims.Role, "UPDATE", "allergy", a.ID, a)
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) DeleteAllergy(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	if _, err := h.store.GetAllergy(ctx, id); err != nil {
		return err
	}
	if err := h.store.DeleteAllergy(ctx, id); err != nil {
		return err
	}

	claims := mw.Claims(c)
	h.audit.Record(ctx, claims.UserID, claims.Role, "DELETE", "allergy", id, nil)
	return c.NoContent(http.StatusNoContent)
}
