package app

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	if cfg.HTTPAddr != "0.0.0.0:8080" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "json" {
		t.Errorf("log defaults = %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.DBSchema != "quill" {
		t.Errorf("DBSchema = %q", cfg.DBSchema)
	}
	if cfg.DBMaxConns != 10 {
		t.Errorf("DBMaxConns = %d", cfg.DBMaxConns)
	}
	if !cfg.CORSAllowCredentials {
		t.Error("CORSAllowCredentials default should be true")
	}
	if cfg.ReadinessRequireDB {
		t.Error("ReadinessRequireDB default should be false")
	}
	if cfg.RequireTokenHMAC {
		t.Error("RequireTokenHMAC default should be false")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("QUILL_HTTP_ADDR", "127.0.0.1:9999")
	t.Setenv("QUILL_LOG_FORMAT", "pretty")
	t.Setenv("QUILL_HTTP_READ_TIMEOUT", "30s")
	t.Setenv("QUILL_CORS_ALLOWED_ORIGINS", "https://a.example.com, http://127.0.0.1:*")
	t.Setenv("QUILL_READINESS_REQUIRE_DB", "true")

	cfg := LoadConfig()

	if cfg.HTTPAddr != "127.0.0.1:9999" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.LogFormat != "pretty" {
		t.Errorf("LogFormat = %q", cfg.LogFormat)
	}
	if cfg.ReadTimeout != 30*time.Second {
		t.Errorf("ReadTimeout = %v", cfg.ReadTimeout)
	}
	want := []string{"https://a.example.com", "http://127.0.0.1:*"}
	if len(cfg.CORSAllowedOrigins) != len(want) {
		t.Fatalf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	for i := range want {
		if cfg.CORSAllowedOrigins[i] != want[i] {
			t.Errorf("origin[%d] = %q, want %q", i, cfg.CORSAllowedOrigins[i], want[i])
		}
	}
	if !cfg.ReadinessRequireDB {
		t.Error("ReadinessRequireDB not applied")
	}
}

func TestEnvHelpersIgnoreGarbage(t *testing.T) {
	t.Setenv("QUILL_HTTP_MAX_HEADER_BYTES", "not-a-number")
	t.Setenv("QUILL_HTTP_IDLE_TIMEOUT", "-5s")
	t.Setenv("QUILL_DB_MAX_CONNS", "-3")

	cfg := LoadConfig()

	if cfg.MaxHeaderBytes != 1<<20 {
		t.Errorf("MaxHeaderBytes = %d", cfg.MaxHeaderBytes)
	}
	if cfg.IdleTimeout != 60*time.Second {
		t.Errorf("IdleTimeout = %v", cfg.IdleTimeout)
	}
	if cfg.DBMaxConns != 10 {
		t.Errorf("DBMaxConns = %d", cfg.DBMaxConns)
	}
}
