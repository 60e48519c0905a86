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

type medicationRequest struct {
	ProviderID string `json:"providerId"`
	Name       string `json:"name"`
	Dosage     string `json:"dosage"`
	Frequency  string `json:"frequency"`
	Status     string `json:"status"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Notes      string `json:"notes"`
}

func (h *Handler) CreateMedication(c echo.Context) error {
	ctx := c.Request().Context()
	patientID := c.Param("id")

	var req medicationRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "malformed request body")
	}
	if err := validate.Required("name", req.Name); err != nil {
		return err
	}
	if err := validate.Required("dosage", req.Dosage); err != nil {
		return err
	}
	if err := validate.Required("frequency", req.Frequency); err != nil {
		return err
	}
	if err := validate.Required("providerId", req.ProviderID); err != nil {
		return err
	}
	startDate, err := validate.Date("startDate", req.StartDate)
	if err != nil {
		return err
	}

	if _, err := h.store.GetPatient(ctx, patientID); err != nil {
		return err
	}
	if _, err := h.store.GetProvider(ctx, req.ProviderID); err != nil {
		return err
	}

	m := &model.Medication{
		ID:             uuid.NewString(),
		PatientID:      patientID,
		PrescribedByID: req.ProviderID,
		Name:           req.Name,
		Dosage:         req.Dosage,
		Frequency:      req.Frequency,
		Status:         model.MedicationActive,
		StartDate:      startDate,
		Notes:          req.Notes,
	}
	if err := h.store.CreateMedication(ctx, m); err != nil {
		return err
	}

	claims := mw.Claims(c)
	h.audit.Record(ctx, claims.UserID, claims.Role, "CREATE", "medication", m.ID, m)
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) ListMedications(c echo.Context) error {
	ctx := c.Request().Context()
	patientID := c.Param("id")

	if _, err := h.store.GetPatient(ctx, patientID); err != nil {
		return err
	}
	meds, err := h.store.ListMedicationsByPatient(ctx, patientID)
	if err != nil {
		return err
	}
	// bucketed by lifecycle status for the chart view
	grouped := map[model.MedicationStatus][]model.Medication{}
	for _, m := range meds {
		grouped[m.Status] = append(grouped[m.Status], m)
	}
	return c.JSON(http.StatusOK, grouped)
}

// UpdateMedication edits the prescription or moves it through its
// status lifecycle. Ending a medication stamps endDate.
func (h *Handler) UpdateMedication(c echo.Context) error {
	ctx := c.Request().Context()

	m, err := h.store.GetMedication(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	var req medicationRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "malformed request body")
	}
	if req.Name != "" {
		m.Name = req.Name
	}
	if req.Dosage != "" {
		m.Dosage = req.Dosage
	}
	if req.Frequency != "" {
		m.Frequency = req.Frequency
	}
	if req.Notes != "" {
		m.Notes = req.Notes
	}
	if req.EndDate != "" {
		end, err := validate.Date("endDate", req.EndDate)
		if err != nil {
			return err
		}
		m.EndDate = &end
	}
	if req.Status != "" {
		status := model.MedicationStatus(req.Status)
		if !status.Valid() {
			return apperr.New(apperr.Validation, "status must be ACTIVE, COMPLETED or DISCONTINUED")
		}
		if status != model.MedicationActive && m.EndDate == nil {
			now := nowUTC()
			m.EndDate = &now
		}
		m.Status = status
	}

	if err := h.store.UpdateMedication(ctx, m); err != nil {
		return err
	}

	claims := mw.Claims(c)
	h.audit.Record(ctx, claims.UserID, claims.Role, "UPDATE", "medication", m.ID, m)
	return c.JSON(http.StatusOK, m)
}
