package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"medrecord-api/internal/apperr"
	"medrecord-api/internal/auth"
	"medrecord-api/internal/model"
)

func testRouter(tokens *auth.TokenService, roles ...model.Role) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		kind := apperr.KindOf(err)
		_ = c.JSON(kind.HTTPStatus(), map[string]string{"message": apperr.PublicMessage(err)})
	}
	g := e.Group("/api", Auth(tokens))
	handler := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	if len(roles) > 0 {
		g.GET("/thing", handler, RequireRole(roles...))
	} else {
		g.GET("/thing", handler)
	}
	return e
}

func request(e *echo.Echo, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/thing", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func accessCookie(t *testing.T, tokens *auth.TokenService, role model.Role) *http.Cookie {
	t.Helper()
	tok, err := tokens.IssueAccessToken(&model.User{ID: "user-1", Email: "a@b.com", Role: role})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return &http.Cookie{Name: AccessCookie, Value: tok}
}

func TestAuthMissingCookie(t *testing.T) {
	tokens := auth.NewTokenService("s1", "s2", 15*time.Minute, time.Hour)
	rec := request(testRouter(tokens), nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuthValidCookie(t *testing.T) {
	tokens := auth.NewTokenService("s1", "s2", 15*time.Minute, time.Hour)
	rec := request(testRouter(tokens), accessCookie(t, tokens, model.RoleAdmin))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthBadTokenClearsAccessCookieOnly(t *testing.T) {
	tokens := auth.NewTokenService("s1", "s2", 15*time.Minute, time.Hour)
	rec := request(testRouter(tokens), &http.Cookie{Name: AccessCookie, Value: "garbage"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var clearedAccess, touchedRefresh bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == AccessCookie && c.MaxAge < 0 {
			clearedAccess = true
		}
		if c.Name == RefreshCookie {
			touchedRefresh = true
		}
	}
	if !clearedAccess {
		t.Error("access cookie not cleared")
	}
	if touchedRefresh {
		t.Error("refresh cookie must stay untouched so the client can refresh")
	}
}

func TestRequireRole(t *testing.T) {
	tokens := auth.NewTokenService("s1", "s2", 15*time.Minute, time.Hour)
	e := testRouter(tokens, model.RoleAdmin, model.RoleProvider)

	if rec := request(e, accessCookie(t, tokens, model.RoleProvider)); rec.Code != http.StatusOK {
		t.Errorf("provider: expected 200, got %d", rec.Code)
	}
	if rec := request(e, accessCookie(t, tokens, model.RolePatient)); rec.Code != http.StatusForbidden {
		t.Errorf("patient: expected 403, got %d", rec.Code)
	}
}

func TestExpiredAccessToken(t *testing.T) {
	expired := auth.NewTokenService("s1", "s2", -time.Minute, time.Hour)
	rec := request(testRouter(expired), accessCookie(t, expired, model.RoleAdmin))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}
