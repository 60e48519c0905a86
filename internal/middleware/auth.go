package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"medrecord-api/internal/apperr"
	"medrecord-api/internal/auth"
	"medrecord-api/internal/model"
)

const (
	// ClaimsKey is the echo context key the auth middleware stores the
	// verified access token claims under.
	ClaimsKey = "authClaims"

	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
)

// Auth reads the access token cookie and verifies it. On failure the
// access cookie is cleared but the refresh cookie is left alone so the
// client can still hit the refresh endpoint.
func Auth(tokens *auth.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(AccessCookie)
			if err != nil || cookie.Value == "" {
				return apperr.New(apperr.MissingToken, "not authenticated")
			}

			claims, err := tokens.VerifyAccessToken(cookie.Value)
			if err != nil {
				ClearAccessCookie(c)
				return apperr.Wrap(apperr.InvalidToken, "not authenticated", err)
			}

			c.Set(ClaimsKey, claims)
			return next(c)
		}
	}
}

// Claims returns the claims the Auth middleware attached, or nil on
// routes that skipped it.
func Claims(c echo.Context) *auth.Claims {
	claims, _ := c.Get(ClaimsKey).(*auth.Claims)
	return claims
}

// RequireRole rejects the request unless the caller holds one of the
// given roles. Must run after Auth.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := Claims(c)
			if claims == nil {
				return apperr.New(apperr.InvalidToken, "not authenticated")
			}
			for _, r := range roles {
				if claims.Role == r {
					return next(c)
				}
			}
			return apperr.New(apperr.Forbidden, "insufficient permissions")
		}
	}
}

// ClearAccessCookie expires the access token cookie.
func ClearAccessCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     AccessCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearRefreshCookie expires the refresh token cookie.
func ClearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     RefreshCookie,
		Value:    "",
		Path:     "/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}
