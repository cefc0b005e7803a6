package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestApp(t *testing.T) *App {
	t.Helper()

	t.Setenv("QUILL_DATABASE_URL", "")
	t.Setenv("QUILL_ACCESS_TOKEN_SECRET", strings.Repeat("a", 32))
	t.Setenv("QUILL_REFRESH_TOKEN_SECRET", strings.Repeat("r", 32))
	// Keep Argon2id cheap for tests.
	t.Setenv("QUILL_ARGON2_MEMORY_KIB", "8192")
	t.Setenv("QUILL_ARGON2_ITERATIONS", "1")
	t.Setenv("QUILL_ARGON2_PARALLELISM", "1")

	app, err := New(context.Background(), LoadConfig(), discardLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(app.Close)
	return app
}

func TestHealthz(t *testing.T) {
	h := newTestApp(t).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %q", rec.Body.String())
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("security headers not applied: X-Content-Type-Options = %q", got)
	}
}

func TestReadyzWithoutDBRequirement(t *testing.T) {
	h := newTestApp(t).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestReadyzRequiresConfiguredDB(t *testing.T) {
	app := newTestApp(t)
	app.cfg.ReadinessRequireDB = true
	h := app.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 when DB required but absent", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestApp(t).Handler()

	// Generate one request so the counters have something to report.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "quill_http_requests_total") {
		t.Error("metrics output missing quill_http_requests_total")
	}
}

func TestRegisterThroughFullStack(t *testing.T) {
	h := newTestApp(t).Handler()

	body := `{"username":"margaret","name":"Margaret","email":"m@example.com",` +
		`"password":"Sup3rSecret","confirmPassword":"Sup3rSecret"}`
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var access, refresh *http.Cookie
	for _, c := range rec.Result().Cookies() {
		switch c.Name {
		case "accessToken":
			access = c
		case "refreshToken":
			refresh = c
		}
	}
	if access == nil || refresh == nil {
		t.Fatal("register did not set both session cookies")
	}

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(access)
	req.AddCookie(refresh)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /me = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"margaret"`) {
		t.Errorf("profile body = %q", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `quill_auth_attempts_total{op="register",outcome="success"}`) {
		t.Error("auth outcome counter not recorded for register")
	}
}

func TestProtectedContentNeedsSession(t *testing.T) {
	h := newTestApp(t).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blog/all", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 without cookies", rec.Code)
	}
}
