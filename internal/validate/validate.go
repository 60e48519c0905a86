// Package validate holds the small field checks shared by the HTTP
// handlers. Each check returns an apperr validation error naming the
// offending field.
package validate

import (
	"strings"
	"time"

	"medrecord-api/internal/apperr"
)

func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperr.New(apperr.Validation, field+" is required")
	}
	return nil
}

func Email(value string) error {
	v := strings.TrimSpace(value)
	if v == "" {
		return apperr.New(apperr.Validation, "email is required")
	}
	at := strings.Index(v, "@")
	if at <= 0 || at == len(v)-1 {
		return apperr.New(apperr.Validation, "email is not valid")
	}
	return nil
}

func Phone(value string) error {
	v := strings.TrimSpace(value)
	if len(v) < 7 {
		return apperr.New(apperr.Validation, "phone number is not valid")
	}
	return nil
}

// Date parses a strict YYYY-MM-DD value.
func Date(field, value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, apperr.New(apperr.Validation, field+" must be in YYYY-MM-DD format")
	}
	return t, nil
}

// Timestamp parses an RFC 3339 value such as 2026-03-01T09:00:00Z.
func Timestamp(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, apperr.New(apperr.Validation, field+" must be an RFC 3339 timestamp")
	}
	return t, nil
}
