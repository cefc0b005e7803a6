package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestLogMeta(t *testing.T) {
	cases := []struct {
		status int
		level  slog.Level
		result string
	}{
		{200, slog.LevelInfo, "success"},
		{201, slog.LevelInfo, "success"},
		{302, slog.LevelInfo, "redirect"},
		{404, slog.LevelWarn, "client_error"},
		{422, slog.LevelWarn, "client_error"},
		{500, slog.LevelError, "server_error"},
		{503, slog.LevelError, "server_error"},
	}
	for _, tc := range cases {
		level, result := requestLogMeta(tc.status)
		if level != tc.level || result != tc.result {
			t.Errorf("requestLogMeta(%d) = (%v, %q), want (%v, %q)",
				tc.status, level, result, tc.level, tc.result)
		}
	}
}

func TestStatusClass(t *testing.T) {
	cases := map[int]string{
		200: "2xx",
		299: "2xx",
		301: "3xx",
		404: "4xx",
		500: "5xx",
		599: "5xx",
	}
	for status, want := range cases {
		if got := statusClass(status); got != want {
			t.Errorf("statusClass(%d) = %q, want %q", status, got, want)
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWithCORSPreflightAllowedOrigin(t *testing.T) {
	cfg := Config{
		CORSAllowedOrigins:   []string{"https://app.example.com"},
		CORSAllowCredentials: true,
		CORSMaxAgeSeconds:    600,
	}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight must not reach the next handler")
	})
	h := WithCORS(next, cfg, discardLogger())

	req := httptest.NewRequest(http.MethodOptions, "/login", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("Allow-Credentials = %q, want true", got)
	}
	if got := rec.Header().Get("Access-Control-Max-Age"); got != "600" {
		t.Errorf("Max-Age = %q, want 600", got)
	}
}

func TestWithCORSPreflightRejectedOrigin(t *testing.T) {
	cfg := Config{CORSAllowedOrigins: []string{"https://app.example.com"}}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("rejected preflight must not reach the next handler")
	})
	h := WithCORS(next, cfg, discardLogger())

	req := httptest.NewRequest(http.MethodOptions, "/login", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin leaked on rejection: %q", got)
	}
}

func TestWithCORSWildcardPortOrigin(t *testing.T) {
	cfg := Config{CORSAllowedOrigins: []string{"http://127.0.0.1:*"}}

	cases := []struct {
		origin string
		want   bool
	}{
		{"http://127.0.0.1:3000", true},
		{"http://127.0.0.1:5173", true},
		{"http://127.0.0.1:", false},
		{"http://127.0.0.1:3000x", false},
		{"http://127.0.0.2:3000", false},
	}
	for _, tc := range cases {
		if got := originAllowed(tc.origin, cfg.CORSAllowedOrigins); got != tc.want {
			t.Errorf("originAllowed(%q) = %v, want %v", tc.origin, got, tc.want)
		}
	}
}

func TestWithCORSNonPreflightPassesThrough(t *testing.T) {
	cfg := Config{CORSAllowedOrigins: []string{"https://app.example.com"}}
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	h := WithCORS(next, cfg, discardLogger())

	// Disallowed origin on a plain GET: the handler still runs, but no CORS
	// headers are issued, so the browser blocks the response.
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if !called {
		t.Fatal("next handler not called")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin set for disallowed origin: %q", got)
	}
}

func TestWithSecurityHeaders(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rec := httptest.NewRecorder()
	WithSecurityHeaders(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	want := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "no-referrer",
	}
	for k, v := range want {
		if got := rec.Header().Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
}

func TestLoggingResponseWriterDefaultsTo200(t *testing.T) {
	rec := httptest.NewRecorder()
	lw := &loggingResponseWriter{ResponseWriter: rec, status: http.StatusOK}

	if _, err := lw.Write([]byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if lw.status != http.StatusOK {
		t.Errorf("status = %d, want 200", lw.status)
	}
	if lw.bytes != 5 {
		t.Errorf("bytes = %d, want 5", lw.bytes)
	}
}

func TestLoggingResponseWriterKeepsFirstStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	lw := &loggingResponseWriter{ResponseWriter: rec, status: http.StatusOK}

	lw.WriteHeader(http.StatusTeapot)
	lw.WriteHeader(http.StatusOK)

	if lw.status != http.StatusTeapot {
		t.Errorf("status = %d, want %d", lw.status, http.StatusTeapot)
	}
}
