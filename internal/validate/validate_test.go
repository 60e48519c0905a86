package validate

import (
	"testing"
	"time"

	"medrecord-api/internal/apperr"
)

func TestEmail(t *testing.T) {
	valid := []string{"a@b.com", "  padded@x.io  ", "x@y"}
	for _, v := range valid {
		if err := Email(v); err != nil {
			t.Errorf("Email(%q): %v", v, err)
		}
	}
	invalid := []string{"", "   ", "no-at-sign", "@leading", "trailing@"}
	for _, v := range invalid {
		if err := Email(v); !apperr.Is(err, apperr.Validation) {
			t.Errorf("Email(%q): expected validation error, got %v", v, err)
		}
	}
}

func TestPhone(t *testing.T) {
	if err := Phone("5551234"); err != nil {
		t.Errorf("7 digits: %v", err)
	}
	if err := Phone("555123"); !apperr.Is(err, apperr.Validation) {
		t.Errorf("6 digits: expected validation error, got %v", err)
	}
	if err := Phone("   "); !apperr.Is(err, apperr.Validation) {
		t.Error("whitespace should fail")
	}
}

func TestDate(t *testing.T) {
	got, err := Date("dob", "1990-04-12")
	if err != nil {
		t.Fatalf("Date: %v", err)
	}
	want := time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	for _, bad := range []string{"12/04/1990", "1990-4-12", "1990-04-12T00:00:00Z", "yesterday"} {
		if _, err := Date("dob", bad); !apperr.Is(err, apperr.Validation) {
			t.Errorf("Date(%q): expected validation error, got %v", bad, err)
		}
	}
}

func TestTimestamp(t *testing.T) {
	if _, err := Timestamp("startTime", "2026-03-01T09:00:00Z"); err != nil {
		t.Errorf("RFC3339: %v", err)
	}
	if _, err := Timestamp("startTime", "2026-03-01 09:00"); !apperr.Is(err, apperr.Validation) {
		t.Error("non-RFC3339 should fail")
	}
}

func TestRequired(t *testing.T) {
	if err := Required("name", "x"); err != nil {
		t.Errorf("non-empty: %v", err)
	}
	if err := Required("name", "  "); !apperr.Is(err, apperr.Validation) {
		t.Error("whitespace should fail")
	}
}
