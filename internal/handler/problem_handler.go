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

type problemRequest struct {
	ProviderID  string `json:"providerId"`
	Name        string `json:"name"`
	IcdCode     string `json:"icdCode"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

func (h *Handler) CreateProblem(c echo.Context) error {
	ctx := c.Request().Context()
	patientID := c.Param("id")

	var req problemRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "malformed request body")
	}
	if err := validate.Required("name", req.Name); err != nil {
		return err
	}
	if err := validate.Required("providerId", req.ProviderID); err != nil {
		return err
	}

	if _, err := h.store.GetPatient(ctx, patientID); err != nil {
		return err
	}
	if _, err := h.store.GetProvider(ctx, req.ProviderID); err != nil {
		return err
	}

	p := &model.Problem{
		ID:          uuid.NewString(),
		PatientID:   patientID,
		ProviderID:  req.ProviderID,
		Name:        req.Name,
		IcdCode:     req.IcdCode,
		Description: req.Description,
		Status:      model.ProblemActive,
	}
	if err := h.store.CreateProblem(ctx, p); err != nil {
		return err
	}

	claims := mw.Claims(c)
	h.audit.Record(ctx, claims.UserID, claims.Role, "CREATE", "problem", p.ID, p)
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) ListProblems(c echo.Context) error {
	ctx := c.Request().Context()
	patientID := c.Param("id")

	if _, err := h.store.GetPatient(ctx, patientID); err != nil {
		return err
	}
	problems, err := h.store.ListProblemsByPatient(ctx, patientID)
	if err != nil {
		return err
	}
	if problems == nil {
		problems = []model.Problem{}
	}
	return c.JSON(http.StatusOK, problems)
}

// UpdateProblem edits the problem or resolves it. Moving to RESOLVED
// stamps resolvedAt once; re-resolving keeps the original stamp.
func (h *Handler) UpdateProblem(c echo.Context) error {
	ctx := c.Request().Context()

	p, err := h.store.GetProblem(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	var req problemRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "malformed request body")
	}
	if req.Name != "" {
		p.Name = req.Name
	}
	if req.IcdCode != "" {
		p.IcdCode = req.IcdCode
	}
	if req.Description != "" {
		p.Description = req.Description
	}
	if req.Status != "" {
		status := model.ProblemStatus(req.Status)
		if !status.Valid() {
			return apperr.New(apperr.Validation, "status must be ACTIVE or RESOLVED")
		}
		if status == model.ProblemResolved {
			// first resolution stamps the time, re-resolving keeps it
			if p.Status != model.ProblemResolved {
				now := nowUTC()
				p.ResolvedAt = &now
			}
		} else {
			p.ResolvedAt = nil
		}
		p.Status = status
	}

	if err := h.store.UpdateProblem(ctx, p); err != nil {
		return err
	}

	claims := mw.Claims(c)
	h.audit.Record(ctx, claims.UserID, claims.Role, "UPDATE", "problem", p.ID, p)
	return c.JSON(http.StatusOK, p)
}
