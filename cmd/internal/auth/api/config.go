package authapi

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config controls auth API behavior and security defaults.
type Config struct {
	AccessCookieName  string
	RefreshCookieName string

	CookiePath     string
	CookieDomain   string
	CookieSecure   bool
	CookieSameSite http.SameSite

	// CookieMaxAge bounds how long the browser keeps both cookies. It is
	// deliberately longer than the credential lifetimes; an expired
	// credential inside a live cookie is still refused.
	CookieMaxAge time.Duration

	TrustProxy   bool
	MaxBodyBytes int64
}

// LoadConfigFromEnv loads auth API config from environment variables with
// safe defaults.
func LoadConfigFromEnv() Config {
	cfg := Config{
		AccessCookieName:  "accessToken",
		RefreshCookieName: "refreshToken",
		CookiePath:        "/",
		CookieDomain:      strings.TrimSpace(os.Getenv("QUILL_AUTH_COOKIE_DOMAIN")),
		CookieSecure:      envBool("QUILL_AUTH_COOKIE_SECURE", true),
		CookieSameSite:    http.SameSiteNoneMode,
		CookieMaxAge:      envDuration("QUILL_AUTH_COOKIE_MAX_AGE", 24*time.Hour),
		TrustProxy:        envBool("QUILL_AUTH_TRUST_PROXY", false),
		MaxBodyBytes:      envInt64("QUILL_AUTH_MAX_BODY_BYTES", 1<<20), // 1 MiB
	}

	// SameSite=None requires Secure; fall back to Lax for plain-HTTP dev.
	if !cfg.CookieSecure {
		cfg.CookieSameSite = http.SameSiteLaxMode
	}

	if cfg.CookieMaxAge <= 0 {
		cfg.CookieMaxAge = 24 * time.Hour
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}

	return cfg
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt64(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
