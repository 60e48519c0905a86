package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"medrecord-api/internal/apperr"
	mw "medrecord-api/internal/middleware"
	"medrecord-api/internal/model"
	"medrecord-api/internal/session"
	"medrecord-api/internal/validate"
)

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type loginResponse struct {
	User *model.User `json:"user"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return apperr.New(apperr.Validation, "malformed request body")
	}
	if err := validate.Email(req.Email); err != nil {
		return err
	}
	if err := validate.Required("password", req.Password); err != nil {
		return err
	}

	u, pair, err := h.sessions.Login(c.Request().Context(), req.Email, req.Password, req.RememberMe)
	if err != nil {
		return err
	}

	h.setSessionCookies(c, pair)
	h.audit.Record(c.Request().Context(), u.ID, u.Role, "LOGIN", "session", u.ID, nil)
	return c.JSON(http.StatusOK, loginResponse{User: u})
}

func (h *Handler) RefreshToken(c echo.Context) error {
	presented := ""
	if cookie, err := c.Cookie(mw.RefreshCookie); err == nil {
		presented = cookie.Value
	}

	u, pair, err := h.sessions.Refresh(c.Request().Context(), presented)
	if err != nil {
		// a dead session gets its cookies removed so the client stops
		// retrying with the same token
		if apperr.Is(err, apperr.TokenReuseDetected) || apperr.Is(err, apperr.SessionExpired) {
			mw.ClearAccessCookie(c)
			mw.ClearRefreshCookie(c)
		}
		return err
	}

	h.setSessionCookies(c, pair)
	return c.JSON(http.StatusOK, loginResponse{User: u})
}

// Logout always succeeds. An absent or invalid refresh cookie still
// results in cleared cookies and 204.
func (h *Handler) Logout(c echo.Context) error {
	presented := ""
	if cookie, err := c.Cookie(mw.RefreshCookie); err == nil {
		presented = cookie.Value
	}
	h.sessions.Logout(c.Request().Context(), presented)

	mw.ClearAccessCookie(c)
	mw.ClearRefreshCookie(c)
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Me(c echo.Context) error {
	claims := mw.Claims(c)
	u, err := h.sessions.UserByID(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResponse{User: u})
}

func (h *Handler) setSessionCookies(c echo.Context, pair session.TokenPair) {
	c.SetCookie(&http.Cookie{
		Name:     mw.AccessCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   int(h.cfg.AccessTokenTTL().Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
	// scoped to /auth so the refresh token only travels on refresh and
	// logout calls
	c.SetCookie(&http.Cookie{
		Name:     mw.RefreshCookie,
		Value:    pair.RefreshToken,
		Path:     "/auth",
		MaxAge:   int(h.cfg.RefreshTokenTTL().Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}
