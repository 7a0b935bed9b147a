package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Setenv("RECORDS_API_URL", "https://records.clinic.test")
	defer os.Unsetenv("RECORDS_API_URL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Errorf("expected default session ttl 12h, got %s", cfg.SessionTTL)
	}
	if cfg.RecordsAPITimeout != 15*time.Second {
		t.Errorf("expected default api timeout 15s, got %s", cfg.RecordsAPITimeout)
	}
	if cfg.BodyLimit != "256K" {
		t.Errorf("expected default body limit 256K, got %s", cfg.BodyLimit)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("cors origins: %v", cfg.CORSOrigins)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	os.Setenv("RECORDS_API_URL", "https://records.clinic.test")
	os.Setenv("SESSION_TTL", "30m")
	os.Setenv("CORS_ORIGINS", "https://portal.clinic.test,https://staging.clinic.test")
	defer func() {
		os.Unsetenv("RECORDS_API_URL")
		os.Unsetenv("SESSION_TTL")
		os.Unsetenv("CORS_ORIGINS")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("session ttl: got %s", cfg.SessionTTL)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("cors origins: %v", cfg.CORSOrigins)
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		Env:               "development",
		RecordsAPIURL:     "http://localhost:5000",
		RecordsAPITimeout: 15 * time.Second,
		SessionTTL:        time.Hour,
	}

	if err := base.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	c := base
	c.RecordsAPIURL = ""
	if err := c.Validate(); err == nil {
		t.Error("expected error for missing RECORDS_API_URL")
	}

	c = base
	c.RecordsAPIURL = "not a url"
	if err := c.Validate(); err == nil {
		t.Error("expected error for relative RECORDS_API_URL")
	}

	c = base
	c.Env = "production"
	if err := c.Validate(); err == nil {
		t.Error("expected error for plain http upstream in production")
	}
	c.RecordsAPIURL = "https://records.clinic.test"
	if err := c.Validate(); err != nil {
		t.Errorf("https upstream in production rejected: %v", err)
	}

	c = base
	c.SessionTTL = 0
	if err := c.Validate(); err == nil {
		t.Error("expected error for zero SESSION_TTL")
	}
}

func TestConfig_IsDev(t *testing.T) {
	c := &Config{Env: "development"}
	if !c.IsDev() {
		t.Error("expected IsDev() to return true for development")
	}

	c.Env = "production"
	if c.IsDev() {
		t.Error("expected IsDev() to return false for production")
	}
	if !c.IsProduction() {
		t.Error("expected IsProduction() for production")
	}
}
