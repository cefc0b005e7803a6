package session

import (
	"os"
	"strings"
	"time"

	"quill/cmd/security/token"
)

// Config defines all runtime configuration for the session subsystem.
//
// It is intentionally explicit and environment-driven so that production
// deployments can tune security parameters without code changes.
type Config struct {
	// Issuer is the value set in the "iss" claim of signed credentials.
	Issuer string

	// AccessTTL is the lifetime of access credentials.
	AccessTTL time.Duration

	// RefreshTTL is the lifetime of refresh credentials.
	RefreshTTL time.Duration

	// AccessSecret and RefreshSecret are the purpose-specific HMAC keys.
	// They must be at least 32 bytes each and must differ.
	AccessSecret  []byte
	RefreshSecret []byte
}

// DefaultConfig returns the baseline configuration (secrets must still be
// provided via environment).
func DefaultConfig() Config {
	return Config{
		Issuer:     "quill",
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 60 * time.Minute,
	}
}

// LoadConfigFromEnv loads session configuration from environment variables.
//
// Required:
//   - QUILL_ACCESS_TOKEN_SECRET  (>= 32 bytes)
//   - QUILL_REFRESH_TOKEN_SECRET (>= 32 bytes, distinct from access)
//
// Optional (durations must be valid Go duration strings):
//   - QUILL_AUTH_ISSUER
//   - QUILL_AUTH_ACCESS_TTL
//   - QUILL_AUTH_REFRESH_TTL
//
// Returns ErrConfig if configuration is invalid.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("QUILL_AUTH_ISSUER"); v != "" {
		cfg.Issuer = strings.TrimSpace(v)
	}

	if v := os.Getenv("QUILL_AUTH_ACCESS_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.AccessTTL = d
	}

	if v := os.Getenv("QUILL_AUTH_REFRESH_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.RefreshTTL = d
	}

	cfg.AccessSecret = []byte(os.Getenv("QUILL_ACCESS_TOKEN_SECRET"))
	cfg.RefreshSecret = []byte(os.Getenv("QUILL_REFRESH_TOKEN_SECRET"))

	if len(cfg.AccessSecret) < 32 || len(cfg.RefreshSecret) < 32 {
		return Config{}, ErrConfig
	}
	if string(cfg.AccessSecret) == string(cfg.RefreshSecret) {
		return Config{}, ErrConfig
	}

	return cfg, nil
}

// NewCodec builds the credential pair codec from this configuration.
func (c Config) NewCodec() (*token.PairCodec, error) {
	return token.NewPairCodec(token.PairConfig{
		AccessSecret:  c.AccessSecret,
		RefreshSecret: c.RefreshSecret,
		AccessTTL:     c.AccessTTL,
		RefreshTTL:    c.RefreshTTL,
		Issuer:        c.Issuer,
	})
}
