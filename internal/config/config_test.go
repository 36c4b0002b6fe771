package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("MAX_VENDOR_MATCHES", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.SessionTTL != 48*time.Hour {
		t.Fatalf("expected default session ttl, got %s", cfg.SessionTTL)
	}
	if cfg.MaxVendorMatches != 3 {
		t.Fatalf("expected default max matches, got %d", cfg.MaxVendorMatches)
	}
	if cfg.DefaultPostalCode != "110001" {
		t.Fatalf("expected default postal code, got %s", cfg.DefaultPostalCode)
	}
	if cfg.WhatsAppAPIVersion != "v22.0" {
		t.Fatalf("expected default api version, got %s", cfg.WhatsAppAPIVersion)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://user@host/db")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("MAX_VENDOR_MATCHES", "5")
	t.Setenv("COMMISSION_RATE", "0.2")
	t.Setenv("INTENT_TIMEOUT", "3s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://user@host/db" {
		t.Fatalf("expected db override, got %s", cfg.DatabaseURL)
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("expected session ttl override, got %s", cfg.SessionTTL)
	}
	if cfg.MaxVendorMatches != 5 {
		t.Fatalf("expected max matches override, got %d", cfg.MaxVendorMatches)
	}
	if cfg.CommissionRate != 0.2 {
		t.Fatalf("expected commission override, got %f", cfg.CommissionRate)
	}
	if cfg.IntentTimeout != 3*time.Second {
		t.Fatalf("expected intent timeout override, got %s", cfg.IntentTimeout)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("expected parsed origins, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("MAX_VENDOR_MATCHES", "three")
	t.Setenv("SESSION_TTL", "two days")
	cfg := Load()
	if cfg.MaxVendorMatches != 3 {
		t.Fatalf("expected default on malformed int, got %d", cfg.MaxVendorMatches)
	}
	if cfg.SessionTTL != 48*time.Hour {
		t.Fatalf("expected default on malformed duration, got %s", cfg.SessionTTL)
	}
}
