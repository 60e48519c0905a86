package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"medrecord-api/internal/apperr"
	mw "medrecord-api/internal/middleware"
	"medrecord-api/internal/model"
	"medrecord-api/internal/pagination"
	"medrecord-api/internal/store"
	"medrecord-api/internal/validate"
)

type appointmentRequest struct {
	PatientID  string `json:"patientId"`
	ProviderID string `json:"providerId"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Reason     string `json:"reason"`
	Status     string `json:"status"`
}

func (h *Handler) CreateAppointment(c echo.Context) error {
	ctx := c.Request().Context()

	var req appointmentRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "malformed request body")
	}
	if err := validate.Required("patientId", req.PatientID); err != nil {
		return err
	}
	if err := validate.Required("providerId", req.ProviderID); err != nil {
		return err
	}
	start, err := validate.Timestamp("startTime", req.StartTime)
	if err != nil {
		return err
	}
	end, err := validate.Timestamp("endTime", req.EndTime)
	if err != nil {
		return err
	}
	if !end.After(start) {
		return apperr.New(apperr.Validation, "endTime must be after startTime")
	}

	// both sides must exist before we reserve the slot
	if _, err := h.store.GetPatient(ctx, req.PatientID); err != nil {
		return err
	}
	if _, err := h.store.GetProvider(ctx, req.ProviderID); err != nil {
		return err
	}

	if err := h.conflict.CheckConflict(ctx, req.ProviderID, start, end, ""); err != nil {
		return err
	}

	apt := &model.Appointment{
		ID:         uuid.NewString(),
		PatientID:  req.PatientID,
		ProviderID: req.ProviderID,
		StartTime:  start,
		EndTime:    end,
		Reason:     req.Reason,
		Status:     model.AppointmentScheduled,
	}

	if err := h.store.CreateAppointment(ctx, apt); err != nil {
		if errors.Is(err, store.ErrOverlapConstraint) {
			// db exclusion constraint caught a race
			return apperr.New(apperr.SchedulingConflict, "time conflicts with an existing appointment")
		}
		return err
	}

	claims := mw.Claims(c)
	h.audit.Record(ctx, claims.UserID, claims.Role, "CREATE", "appointment", apt.ID, apt)
	return c.JSON(http.StatusCreated, apt)
}

func (h *Handler) ListAppointments(c echo.Context) error {
	providerID := c.QueryParam("providerId")
	if err := validate.Required("providerId", providerID); err != nil {
		return err
	}

	var status model.AppointmentStatus
	if raw := c.QueryParam("status"); raw != "" {
		status = model.AppointmentStatus(raw)
		if !status.Valid() {
			return apperr.New(apperr.Validation, "status is not a valid appointment status")
		}
	}

	p := pagination.Parse(c.QueryParam("page"), c.QueryParam("limit"))
	apts, total, err := h.store.ListProviderAppointments(c.Request().Context(), providerID, status, p.Limit, p.Offset())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewPage(apts, total, p))
}

func (h *Handler) GetAppointment(c echo.Context) error {
	apt, err := h.store.GetAppointment(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apt)
}

func (h *Handler) UpdateAppointment(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	apt, err := h.store.GetAppointment(ctx, id)
	if err != nil {
		return err
	}

	var req appointmentRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "malformed request body")
	}

	start, err := validate.Timestamp("startTime", req.StartTime)
	if err != nil {
		return err
	}
	end, err := validate.Timestamp("endTime", req.EndTime)
	if err != nil {
		return err
	}
	if !end.After(start) {
		return apperr.New(apperr.Validation, "endTime must be after startTime")
	}

	status := apt.Status
	if req.Status != "" {
		status = model.AppointmentStatus(req.Status)
		if !status.Valid() {
			return apperr.New(apperr.Validation, "status is not a valid appointment status")
		}
	}

	// exclude the appointment being moved from its own conflict check
	if status == model.AppointmentScheduled {
		if err := h.conflict.CheckConflict(ctx, apt.ProviderID, start, end, apt.ID); err != nil {
			return err
		}
	}

	apt.StartTime = start
	apt.EndTime = end
	apt.Status = status
	if req.Reason != "" {
		apt.Reason = req.Reason
	}

	if err := h.store.UpdateAppointment(ctx, apt); err != nil {
		if errors.Is(err, store.ErrOverlapConstraint) {
			return apperr.New(apperr.SchedulingConflict, "time conflicts with an existing appointment")
		}
		return err
	}

	claims := mw.Claims(c)
	h.audit.Record(ctx, claims.UserID, claims.Role, "UPDATE", "appointment", apt.ID, apt)
	return c.JSON(http.StatusOK, apt)
}

// CancelAppointment soft-deletes: the row stays, the status flips, and
// the slot becomes bookable again.
func (h *Handler) CancelAppointment(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	if _, err := h.store.GetAppointment(ctx, id); err != nil {
		return err
	}
	if err := h.store.CancelAppointment(ctx, id); err != nil {
		return err
	}

	claims := mw.Claims(c)
	h.audit.Record(ctx, claims.UserID, claims.Role, "CANCEL", "appointment", id, nil)
	return c.NoContent(http.StatusNoContent)
}
