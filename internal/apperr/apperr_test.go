package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{Validation, http.StatusBadRequest},
		{NotFound, http.StatusNotFound},
		{InvalidCredentials, http.StatusUnauthorized},
		{MissingToken, http.StatusUnauthorized},
		{InvalidToken, http.StatusUnauthorized},
		{SessionExpired, http.StatusUnauthorized},
		{TokenReuseDetected, http.StatusForbidden},
		{Forbidden, http.StatusForbidden},
		{SchedulingConflict, http.StatusConflict},
		{StoreFailure, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.kind.HTTPStatus(); got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestKindOfUnclassified(t *testing.T) {
	if got := KindOf(errors.New("boom")); got != StoreFailure {
		t.Errorf("unclassified error: got %s", got)
	}
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(NotFound, "no such row"))
	if KindOf(err) != NotFound {
		t.Error("kind lost through wrapping")
	}
	if !Is(err, NotFound) {
		t.Error("Is should see through wrapping")
	}
}

func TestPublicMessageHidesInternals(t *testing.T) {
	internal := Wrap(StoreFailure, "pgx: connection refused on 10.0.0.5", errors.New("dial tcp"))
	if msg := PublicMessage(internal); msg != "internal server error" {
		t.Errorf("internal detail leaked: %q", msg)
	}

	visible := New(Validation, "email is required")
	if msg := PublicMessage(visible); msg != "email is required" {
		t.Errorf("got %q", msg)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(StoreFailure, "database error", cause)
	if !errors.Is(err, cause) {
		t.Error("cause not reachable via errors.Is")
	}
}
