package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"medrecord-api/internal/apperr"
	"medrecord-api/internal/auth"
	mw "medrecord-api/internal/middleware"
	"medrecord-api/internal/model"
	"medrecord-api/internal/pagination"
	"medrecord-api/internal/validate"
)

type patientRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Dob       string `json:"dob"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}

type patientResponse struct {
	Patient *model.Patient `json:"patient"`
	// Warnings flags likely duplicate registrations without blocking them.
	Warnings []string `json:"warnings,omitempty"`
}

func (h *Handler) CreatePatient(c echo.Context) error {
	ctx := c.Request().Context()

	var req patientRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "malformed request body")
	}
	if err := validate.Required("firstName", req.FirstName); err != nil {
		return err
	}
	if err := validate.Required("lastName", req.LastName); err != nil {
		return err
	}
	if err := validate.Email(req.Email); err != nil {
		return err
	}
	if err := validate.Phone(req.Phone); err != nil {
		return err
	}
	dob, err := validate.Date("dob", req.Dob)
	if err != nil {
		return err
	}
	if len(req.Password) < 8 {
		return apperr.New(apperr.Validation, "password must be at least 8 characters")
	}

	var warnings []string
	byEmail, byPhone, err := h.store.FindDuplicatePatient(ctx, req.Email, req.Phone)
	if err == nil {
		if byEmail != nil {
			warnings = append(warnings, "a patient with this email already exists")
		}
		if byPhone != nil {
			warnings = append(warnings, "a patient with this phone number already exists")
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return apperr.Wrap(apperr.StoreFailure, "failed to create patient", err)
	}

	p := &model.Patient{
		ID:        uuid.NewString(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Dob:       dob,
		Email:     req.Email,
		Phone:     req.Phone,
	}
	if _, err := h.store.CreatePatientWithUser(ctx, p, hash); err != nil {
		return err
	}

	claims := mw.Claims(c)
	h.audit.Record(ctx, claims.UserID, claims.Role, "CREATE", "patient", p.ID, p)
	return c.JSON(http.StatusCreated, patientResponse{Patient: p, Warnings: warnings})
}

func (h *Handler) ListPatients(c echo.Context) error {
	p := pagination.Parse(c.QueryParam("page"), c.QueryParam("limit"))
	patients, total, err := h.store.ListPatients(c.Request().Context(), p.Limit, p.Offset())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewPage(patients, total, p))
}

func (h *Handler) GetPatient(c echo.Context) error {
	claims := mw.Claims(c)
	patient, err := h.store.GetPatient(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	// patients may only read their own chart
	if claims.Role == model.RolePatient && claims.PatientID != patient.ID {
		return apperr.New(apperr.NotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, patient)
}

// GetPatientByUser resolves a login account to its patient record.
func (h *Handler) GetPatientByUser(c echo.Context) error {
	claims := mw.Claims(c)
	patient, err := h.store.GetPatientByUserID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	if claims.Role == model.RolePatient && claims.PatientID != patient.ID {
		return apperr.New(apperr.NotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, patient)
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	ctx := c.Request().Context()

	patient, err := h.store.GetPatient(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	var req patientRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "malformed request body")
	}
	if req.FirstName != "" {
		patient.FirstName = req.FirstName
	}
	if req.LastName != "" {
		patient.LastName = req.LastName
	}
	if req.Email != "" {
		if err := validate.Email(req.Email); err != nil {
			return err
		}
		patient.Email = req.Email
	}
	if req.Phone != "" {
		if err := validate.Phone(req.Phone); err != nil {
			return err
		}
		patient.Phone = req.Phone
	}
	if req.Dob != "" {
		dob, err := validate.Date("dob", req.Dob)
		if err != nil {
			return err
		}
		patient.Dob = dob
	}

	if err := h.store.UpdatePatient(ctx, patient); err != nil {
		return err
	}

	claims := mw.Claims(c)
	h.audit.Record(ctx, claims.UserID, claims.Role, "UPDATE", "patient", patient.ID, patient)
	return c.JSON(http.StatusOK, patient)
}

func (h *Handler) DeletePatient(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	if _, err := h.store.GetPatient(ctx, id); err != nil {
		return err
	}
	if err := h.store.DeletePatient(ctx, id); err != nil {
		return err
	}

	claims := mw.Claims(c)
	h.audit.Record(ctx, claims.UserID, claims.Role, "DELETE", "patient", id, nil)
	return c.NoContent(http.StatusNoContent)
}
