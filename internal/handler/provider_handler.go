package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"medrecord-api/internal/apperr"
	mw "medrecord-api/internal/middleware"
	"medrecord-api/internal/model"
	"medrecord-api/internal/pagination"
	"medrecord-api/internal/validate"
)

type providerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Specialty string `json:"specialty"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

func (h *Handler) CreateProvider(c echo.Context) error {
	ctx := c.Request().Context()

	var req providerRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "malformed request body")
	}
	if err := validate.Required("firstName", req.FirstName); err != nil {
		return err
	}
	if err := validate.Required("lastName", req.LastName); err != nil {
		return err
	}
	if err := validate.Required("specialty", req.Specialty); err != nil {
		return err
	}
	if err := validate.Email(req.Email); err != nil {
		return err
	}

	if existing, err := h.store.GetProviderByEmail(ctx, req.Email); err != nil {
		return err
	} else if existing != nil {
		return apperr.New(apperr.Validation, "a provider with this email already exists")
	}

	p := &model.Provider{
		ID:        uuid.NewString(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Specialty: req.Specialty,
		Email:     req.Email,
		Phone:     req.Phone,
	}
	if err := h.store.CreateProvider(ctx, p); err != nil {
		return err
	}

	claims := mw.Claims(c)
	h.audit.Record(ctx, claims.UserID, claims.Role, "CREATE", "provider", p.ID, p)
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) ListProviders(c echo.Context) error {
	p := pagination.Parse(c.QueryParam("page"), c.QueryParam("limit"))
	providers, total, err := h.store.ListProviders(c.Request().Context(), p.Limit, p.Offset())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewPage(providers, total, p))
}

func (h *Handler) GetProvider(c echo.Context) error {
	p, err := h.store.GetProvider(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdateProvider(c echo.Context) error {
	ctx := c.Request().Context()

	p, err := h.store.GetProvider(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	var req providerRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "malformed request body")
	}
	if req.FirstName != "" {
		p.FirstName = req.FirstName
	}
	if req.LastName != "" {
		p.LastName = req.LastName
	}
	if req.Specialty != "" {
		p.Specialty = req.Specialty
	}
	if req.Email != "" {
		if err := validate.Email(req.Email); err != nil {
			return err
		}
		p.Email = req.Email
	}
	if req.Phone != "" {
		p.Phone = req.Phone
	}

	if err := h.store.UpdateProvider(ctx, p); err != nil {
		return err
	}

	claims := mw.Claims(c)
	h.audit.Record(ctx, claims.UserID, claims.Role, "UPDATE", "provider", p.ID, p)
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeleteProvider(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	if _, err := h.store.GetProvider(ctx, id); err != nil {
		return err
	}
	if err := h.store.DeleteProvider(ctx, id); err != nil {
		return err
	}

	claims := mw.Claims(c)
	h.audit.Record(ctx, claims.UserID, claims.Role, "DELETE", "provider", id, nil)
	return c.NoContent(http.StatusNoContent)
}

type availabilityRequest struct {
	StartTime   string   `json:"startTime"`
	EndTime     string   `json:"endTime"`
	WorkingDays []string `json:"workingDays"`
}

// SetAvailability creates or replaces the provider's recurring window.
func (h *Handler) SetAvailability(c echo.Context) error {
	ctx := c.Request().Context()
	providerID := c.Param("id")

	if _, err := h.store.GetProvider(ctx, providerID); err != nil {
		return err
	}
	claims := mw.Claims(c)
	// a provider manages only its own window; admins manage any
	if claims.Role == model.RoleProvider && claims.ProviderID != providerID {
		return apperr.New(apperr.Forbidden, "availability belongs to another provider")
	}

	var req availabilityRequest
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
	if len(req.WorkingDays) == 0 {
		return apperr.New(apperr.Validation, "workingDays is required")
	}

	existing, err := h.store.GetAvailabilityByProvider(ctx, providerID)
	if err != nil {
		return err
	}

	if existing != nil {
		existing.StartTime = start
		existing.EndTime = end
		existing.WorkingDays = req.WorkingDays
		if err := h.store.UpdateAvailability(ctx, existing); err != nil {
			return err
		}
		h.audit.Record(ctx, claims.UserID, claims.Role, "UPDATE", "availability", existing.ID, existing)
		return c.JSON(http.StatusOK, existing)
	}

	a := &model.ProviderAvailability{
		ID:          uuid.NewString(),
		ProviderID:  providerID,
		StartTime:   start,
		EndTime:     end,
		WorkingDays: req.WorkingDays,
	}
	if err := h.store.CreateAvailability(ctx, a); err != nil {
		return err
	}
	h.audit.Record(ctx, claims.UserID, claims.Role, "CREATE", "availability", a.ID, a)
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) GetAvailability(c echo.Context) error {
	ctx := c.Request().Context()
	providerID := c.Param("id")

	if _, err := h.store.GetProvider(ctx, providerID); err != nil {
		return err
	}
	claims := mw.Claims(c)
	if claims.Role == model.RoleProvider && claims.ProviderID != providerID {
		return apperr.New(apperr.Forbidden, "availability belongs to another provider")
	}
	a, err := h.store.GetAvailabilityByProvider(ctx, providerID)
	if err != nil {
		return err
	}
	if a == nil {
		return apperr.New(apperr.NotFound, "availability not set for this provider")
	}
	return c.JSON(http.StatusOK, a)
}
