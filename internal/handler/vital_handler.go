package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"medrecord-api/internal/apperr"
	mw "medrecord-api/internal/middleware"
	"medrecord-api/internal/model"
)

type vitalRequest struct {
	HeartRate              *int     `json:"heartRate"`
	BloodPressureSystolic  *int     `json:"bloodPressureSystolic"`
	BloodPressureDiastolic *int     `json:"bloodPressureDiastolic"`
	Temperature            *float64 `json:"temperature"`
	Weight                 *float64 `json:"weight"`
	OxygenSaturation       *int     `json:"oxygenSaturation"`
}

func (r *vitalRequest) validate() error {
	if r.HeartRate == nil && r.BloodPressureSystolic == nil && r.BloodPressureDiastolic == nil &&
		r.Temperature == nil && r.Weight == nil && r.OxygenSaturation == nil {
		return apperr.New(apperr.Validation, "at least one measurement is required")
	}
	// systolic and diastolic come as a pair
	if (r.BloodPressureSystolic == nil) != (r.BloodPressureDiastolic == nil) {
		return apperr.New(apperr.Validation, "blood pressure requires both systolic and diastolic values")
	}
	if r.HeartRate != nil && (*r.HeartRate < 20 || *r.HeartRate > 300) {
		return apperr.New(apperr.Validation, "heartRate is out of range")
	}
	if r.OxygenSaturation != nil && (*r.OxygenSaturation < 0 || *r.OxygenSaturation > 100) {
		return apperr.New(apperr.Validation, "oxygenSaturation must be between 0 and 100")
	}
	return nil
}

func (h *Handler) RecordVitals(c echo.Context) error {
	ctx := c.Request().Context()
	appointmentID := c.Param("id")

	var req vitalRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "malformed request body")
	}
	if err := req.validate(); err != nil {
		return err
	}

	apt, err := h.store.GetAppointment(ctx, appointmentID)
	if err != nil {
		return err
	}

	v := &model.Vital{
		ID:                     uuid.NewString(),
		AppointmentID:          apt.ID,
		PatientID:              apt.PatientID,
		ProviderID:             apt.ProviderID,
		HeartRate:              req.HeartRate,
		BloodPressureSystolic:  req.BloodPressureSystolic,
		BloodPressureDiastolic: req.BloodPressureDiastolic,
		Temperature:            req.Temperature,
		Weight:                 req.Weight,
		OxygenSaturation:       req.OxygenSaturation,
	}
	if err := h.store.CreateVital(ctx, v); err != nil {
		return err
	}

	claims := mw.Claims(c)
	h.audit.Record(ctx, claims.UserID, claims.Role, "CREATE", "vital", v.ID, v)
	return c.JSON(http.StatusCreated, v)
}

func (h *Handler) ListAppointmentVitals(c echo.Context) error {
	ctx := c.Request().Context()
	appointmentID := c.Param("id")

	if _, err := h.store.GetAppointment(ctx, appointmentID); err != nil {
		return err
	}
	vitals, err := h.store.ListVitalsByAppointment(ctx, appointmentID)
	if err != nil {
		return err
	}
	if vitals == nil {
		vitals = []model.Vital{}
	}
	return c.JSON(http.StatusOK, vitals)
}

func (h *Handler) ListPatientVitals(c echo.Context) error {
	ctx := c.Request().Context()
	patientID := c.Param("id")

	patient, err := h.store.GetPatient(ctx, patientID)
	if err != nil {
		return err
	}
	// patients may only read their own chart
	claims := mw.Claims(c)
	if claims.Role == model.RolePatient && claims.PatientID != patient.ID {
		return apperr.New(apperr.NotFound, "patient not found")
	}
	vitals, err := h.store.ListVitalsByPatient(ctx, patientID)
	if err != nil {
		return err
	}
	if vitals == nil {
		vitals = []model.Vital{}
	}
	return c.JSON(http.StatusOK, vitals)
}

func (h *Handler) UpdateVitals(c echo.Context) error {
	ctx := c.Request().Context()

	v, err := h.store.GetVital(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	var req vitalRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "malformed request body")
	}
	if err := req.validate(); err != nil {
		return err
	}

	if req.HeartRate != nil {
		v.HeartRate = req.HeartRate
	}
	if req.BloodPressureSystolic != nil {
		v.BloodPressureSystolic = req.BloodPressureSystolic
		v.BloodPressureDiastolic = req.BloodPressureDiastolic
	}
	if req.Temperature != nil {
		v.Temperature = req.Temperature
	}
	if req.Weight != nil {
		v.Weight = req.Weight
	}
	if req.OxygenSaturation != nil {
		v.OxygenSaturation = req.OxygenSaturation
	}

	if err := h.store.UpdateVital(ctx, v); err != nil {
		return err
	}

	claims := mw.Claims(c)
	h.audit.Record(ctx, claims.UserID, claims.Role, "UPDATE", "vital", v.ID, v)
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) DeleteVitals(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	if _, err := h.store.GetVital(ctx, id); err != nil {
		return err
	}
	if err := h.store.DeleteVital(ctx, id); err != nil {
		return err
	}

	claims := mw.Claims(c)
	h.audit.Record(ctx, claims.UserID, claims.Role, "DELETE", "vital", id, nil)
	return c.NoContent(http.StatusNoContent)
}
