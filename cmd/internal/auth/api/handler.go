package authapi

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"quill/cmd/identity"
	"quill/cmd/internal/auth/session"
)

// Handler wires HTTP auth endpoints to the session service.
type Handler struct {
	log      *slog.Logger
	cfg      Config
	sessions *session.Service
	observe  func(op, outcome string)
}

// NewHandler constructs an auth Handler.
func NewHandler(log *slog.Logger, cfg Config, sessions *session.Service) (*Handler, error) {
	if sessions == nil {
		return nil, errors.New("authapi: nil session service")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Handler{log: log, cfg: cfg, sessions: sessions}, nil
}

// SetObserver installs a per-operation outcome callback, used for metrics.
// Outcomes are "success", "validation", "conflict", "unauthorized", "error".
func (h *Handler) SetObserver(fn func(op, outcome string)) {
	h.observe = fn
}

func (h *Handler) observeOutcome(op, outcome string) {
	if h.observe != nil {
		h.observe(op, outcome)
	}
}

// Register wires auth routes onto the provided mux.
func (h *Handler) Register(mux *http.ServeMux) {
	if h == nil || mux == nil {
		return
	}
	mux.HandleFunc("POST /register", h.handleRegister)
	mux.HandleFunc("POST /login", h.handleLogin)
	mux.HandleFunc("GET /refresh", h.handleRefresh)
	mux.Handle("POST /logout", h.RequireAuth(http.HandlerFunc(h.handleLogout)))
	mux.Handle("GET /me", h.RequireAuth(http.HandlerFunc(h.handleMe)))
}

// RequireAuth is the request authenticator. Both credential cookies must be
// present, but only the access credential is verified; nothing is read from
// storage, which keeps per-request authentication stateless.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		access, haveAccess := cookieValue(r, h.cfg.AccessCookieName)
		_, haveRefresh := cookieValue(r, h.cfg.RefreshCookieName)
		if !haveAccess || !haveRefresh {
			writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
			return
		}

		subjectID, err := h.sessions.Authenticate(access, time.Now().UTC())
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), subjectID)))
	})
}

// ---- handlers ----

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	profile, issued, err := h.sessions.Register(ctx, now, session.RegisterInput{
		Username:        req.Username,
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		h.writeServiceError(w, "register", err)
		return
	}

	h.observeOutcome("register", "success")
	h.setSessionCookies(w, issued)
	user := toUserResponse(profile)
	writeJSON(w, http.StatusCreated, authResponse{User: &user, Auth: true})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, h.cfg.MaxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	profile, issued, err := h.sessions.Login(ctx, now, session.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.writeServiceError(w, "login", err)
		return
	}

	h.observeOutcome("login", "success")
	h.setSessionCookies(w, issued)
	user := toUserResponse(profile)
	writeJSON(w, http.StatusOK, authResponse{User: &user, Auth: true})
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	refreshToken, ok := cookieValue(r, h.cfg.RefreshCookieName)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	ctx := r.Context()
	now := time.Now().UTC()

	profile, issued, err := h.sessions.Refresh(ctx, now, refreshToken)
	if err != nil {
		h.writeServiceError(w, "refresh", err)
		return
	}

	h.observeOutcome("refresh", "success")
	h.setSessionCookies(w, issued)
	user := toUserResponse(profile)
	writeJSON(w, http.StatusOK, authResponse{User: &user, Auth: true})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	refreshToken, _ := cookieValue(r, h.cfg.RefreshCookieName)

	if err := h.sessions.Logout(r.Context(), refreshToken); err != nil {
		h.observeOutcome("logout", "error")
		h.log.Error("auth.logout.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	h.observeOutcome("logout", "success")
	h.clearSessionCookies(w)
	writeJSON(w, http.StatusOK, authResponse{User: nil, Auth: false})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	profile, err := h.sessions.Profile(r.Context(), subjectID)
	if err != nil {
		if identity.IsNotFound(err) {
			writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
			return
		}
		h.log.Error("auth.me.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	user := toUserResponse(profile)
	writeJSON(w, http.StatusOK, authResponse{User: &user, Auth: true})
}

// writeServiceError maps session/identity errors onto the wire contract.
// Authentication failures stay a single generic 401 no matter the cause.
func (h *Handler) writeServiceError(w http.ResponseWriter, op string, err error) {
	var ve identity.ValidationError
	var ce identity.ConflictError

	switch {
	case errors.As(err, &ve):
		h.observeOutcome(op, "validation")
		writeFieldError(w, http.StatusBadRequest, "invalid_request", ve.Msg, ve.Field)
	case errors.As(err, &ce):
		h.observeOutcome(op, "conflict")
		writeFieldError(w, http.StatusConflict, "conflict", "already in use", ce.Field)
	case errors.Is(err, session.ErrUnauthorized):
		h.observeOutcome(op, "unauthorized")
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
	default:
		h.observeOutcome(op, "error")
		h.log.Error("auth."+op+".fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
	}
}
