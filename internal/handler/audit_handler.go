package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"medrecord-api/internal/apperr"
	"medrecord-api/internal/pagination"
)

func (h *Handler) ListAuditLogs(c echo.Context) error {
	entity := c.QueryParam("entity")
	entityID := c.QueryParam("entityId")
	if (entity == "") != (entityID == "") {
		return apperr.New(apperr.Validation, "entity and entityId must be supplied together")
	}

	p := pagination.Parse(c.QueryParam("page"), c.QueryParam("limit"))
	logs, total, err := h.store.ListAuditLogs(c.Request().Context(), entity, entityID, p.Page, p.Limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewPage(logs, total, p))
}
