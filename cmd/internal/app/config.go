package app

import "time"

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogFormat string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32
	DBSchema    string

	// CORS. Credentialed requests require explicit origins; "*" is refused by
	// browsers when cookies are involved.
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
	CORSMaxAgeSeconds    int

	// If true, /readyz returns 503 unless DB is configured and reachable.
	ReadinessRequireDB bool

	// Security policy:
	// If true, QUILL_TOKEN_HMAC_KEY MUST be set (>= 32 bytes) and
	// refresh-token hashing must be HMAC-based.
	RequireTokenHMAC bool
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr:  EnvString("QUILL_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel:  EnvString("QUILL_LOG_LEVEL", "info"),
		LogFormat: EnvString("QUILL_LOG_FORMAT", "json"),

		ReadHeaderTimeout: EnvDuration("QUILL_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("QUILL_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("QUILL_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("QUILL_HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt("QUILL_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL: EnvString("QUILL_DATABASE_URL", ""),
		DBMaxConns:  EnvInt32("QUILL_DB_MAX_CONNS", 10),
		DBMinConns:  EnvInt32("QUILL_DB_MIN_CONNS", 0),
		DBSchema:    EnvString("QUILL_DB_SCHEMA", "quill"),

		CORSAllowedOrigins:   EnvStringSlice("QUILL_CORS_ALLOWED_ORIGINS", nil),
		CORSAllowCredentials: EnvBool("QUILL_CORS_ALLOW_CREDENTIALS", true),
		CORSMaxAgeSeconds:    EnvInt("QUILL_CORS_MAX_AGE_SECONDS", 600),

		ReadinessRequireDB: EnvBool("QUILL_READINESS_REQUIRE_DB", false),

		RequireTokenHMAC: EnvBool("QUILL_REQUIRE_TOKEN_HMAC", false),
	}
}
