package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("port: %s", cfg.Port)
	}
	if cfg.AccessTokenTTL() != 15*time.Minute {
		t.Errorf("access ttl: %v", cfg.AccessTokenTTL())
	}
	if cfg.SessionMaxAge(false) != 7*24*time.Hour {
		t.Errorf("session ceiling: %v", cfg.SessionMaxAge(false))
	}
	if cfg.SessionMaxAge(true) != 30*24*time.Hour {
		t.Errorf("remembered ceiling: %v", cfg.SessionMaxAge(true))
	}
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_REFRESH_SECRET", "")
	if _, err := Load(); err == nil {
		t.Error("expected error without JWT_SECRET")
	}

	t.Setenv("JWT_SECRET", "same")
	t.Setenv("JWT_REFRESH_SECRET", "same")
	if _, err := Load(); err == nil {
		t.Error("expected error when secrets are identical")
	}
}

func TestEnvOverridesDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_MAX_AGE_DAYS", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("port: %s", cfg.Port)
	}
	if cfg.SessionMaxAge(false) != 3*24*time.Hour {
		t.Errorf("ceiling: %v", cfg.SessionMaxAge(false))
	}
}
