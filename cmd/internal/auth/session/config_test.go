package session

import (
	"errors"
	"testing"
	"time"
)

func setValidSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("QUILL_ACCESS_TOKEN_SECRET", "env-access-secret-0123456789abcdefgh")
	t.Setenv("QUILL_REFRESH_TOKEN_SECRET", "env-refresh-secret-0123456789abcdefg")
}

func TestLoadConfigFromEnvDefaults(t *testing.T) {
	setValidSecrets(t)

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv: %v", err)
	}
	if cfg.Issuer != "quill" {
		t.Fatalf("issuer = %q", cfg.Issuer)
	}
	if cfg.AccessTTL != 30*time.Minute {
		t.Fatalf("access ttl = %v", cfg.AccessTTL)
	}
	if cfg.RefreshTTL != 60*time.Minute {
		t.Fatalf("refresh ttl = %v", cfg.RefreshTTL)
	}

	if _, err := cfg.NewCodec(); err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
}

func TestLoadConfigFromEnvOverrides(t *testing.T) {
	setValidSecrets(t)
	t.Setenv("QUILL_AUTH_ISSUER", "quill-stage")
	t.Setenv("QUILL_AUTH_ACCESS_TTL", "15m")
	t.Setenv("QUILL_AUTH_REFRESH_TTL", "2h")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadConfigFromEnv: %v", err)
	}
	if cfg.Issuer != "quill-stage" || cfg.AccessTTL != 15*time.Minute || cfg.RefreshTTL != 2*time.Hour {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadConfigFromEnvRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		set  func(t *testing.T)
	}{
		{"missing secrets", func(t *testing.T) {}},
		{"short access secret", func(t *testing.T) {
			t.Setenv("QUILL_ACCESS_TOKEN_SECRET", "short")
			t.Setenv("QUILL_REFRESH_TOKEN_SECRET", "env-refresh-secret-0123456789abcdefg")
		}},
		{"identical secrets", func(t *testing.T) {
			t.Setenv("QUILL_ACCESS_TOKEN_SECRET", "same-secret-0123456789abcdefghijklmn")
			t.Setenv("QUILL_REFRESH_TOKEN_SECRET", "same-secret-0123456789abcdefghijklmn")
		}},
		{"bad access ttl", func(t *testing.T) {
			setValidSecrets(t)
			t.Setenv("QUILL_AUTH_ACCESS_TTL", "soon")
		}},
		{"negative refresh ttl", func(t *testing.T) {
			setValidSecrets(t)
			t.Setenv("QUILL_AUTH_REFRESH_TTL", "-1h")
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.set(t)
			if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrConfig) {
				t.Fatalf("got %v, want ErrConfig", err)
			}
		})
	}
}
