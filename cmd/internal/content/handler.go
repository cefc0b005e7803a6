package content

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	authapi "quill/cmd/internal/auth/api"
)

// Handler exposes the post/comment endpoints. Every route is mounted behind
// the request authenticator; the author id always comes from the verified
// access credential, never from the request body.
type Handler struct {
	log          *slog.Logger
	store        Store
	maxBodyBytes int64
}

// NewHandler constructs a content Handler.
func NewHandler(log *slog.Logger, store Store, maxBodyBytes int64) (*Handler, error) {
	if store == nil {
		return nil, errors.New("content: nil store")
	}
	if log == nil {
		log = slog.Default()
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = 1 << 20
	}
	return &Handler{log: log, store: store, maxBodyBytes: maxBodyBytes}, nil
}

// Register wires content routes onto the mux, wrapped by guard.
func (h *Handler) Register(mux *http.ServeMux, guard func(http.Handler) http.Handler) {
	if h == nil || mux == nil {
		return
	}
	if guard == nil {
		guard = func(next http.Handler) http.Handler { return next }
	}

	mux.Handle("POST /blog", guard(http.HandlerFunc(h.handleCreatePost)))
	mux.Handle("GET /blog/all", guard(http.HandlerFunc(h.handleListPosts)))
	mux.Handle("GET /blog/{id}", guard(http.HandlerFunc(h.handleGetPost)))
	mux.Handle("PUT /blog", guard(http.HandlerFunc(h.handleUpdatePost)))
	mux.Handle("DELETE /blog/{id}", guard(http.HandlerFunc(h.handleDeletePost)))
	mux.Handle("POST /comment", guard(http.HandlerFunc(h.handleCreateComment)))
	mux.Handle("GET /comment/{postID}", guard(http.HandlerFunc(h.handleListComments)))
}

// ---- wire types ----

type postRequest struct {
	ID      string `json:"id,omitempty"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type commentRequest struct {
	PostID  string `json:"postId"`
	Content string `json:"content"`
}

type postResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type commentResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func toPostResponse(p Post) postResponse {
	return postResponse{
		ID:        p.ID,
		AuthorID:  p.AuthorID,
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toCommentResponse(c Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

// ---- handlers ----

func (h *Handler) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := authapi.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	var req postRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}
	if err := ValidatePost(req.Title, req.Content); err != nil {
		h.writeValidationError(w, err)
		return
	}

	p, err := h.store.CreatePost(r.Context(), CreatePostInput{
		AuthorID: subjectID,
		Title:    req.Title,
		Content:  req.Content,
		Now:      time.Now().UTC(),
	})
	if err != nil {
		h.log.Error("content.post.create.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toPostResponse(p))
}

func (h *Handler) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.ListPosts(r.Context())
	if err != nil {
		h.log.Error("content.post.list.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetPost(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.GetPost(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "post not found")
			return
		}
		h.log.Error("content.post.get.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toPostResponse(p))
}

func (h *Handler) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := authapi.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	var req postRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}
	if err := ValidatePost(req.Title, req.Content); err != nil {
		h.writeValidationError(w, err)
		return
	}

	if !h.authorizeAuthor(w, r, req.ID, subjectID) {
		return
	}

	p, err := h.store.UpdatePost(r.Context(), UpdatePostInput{
		ID:      req.ID,
		Title:   req.Title,
		Content: req.Content,
		Now:     time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "post not found")
			return
		}
		h.log.Error("content.post.update.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toPostResponse(p))
}

func (h *Handler) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := authapi.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	id := r.PathValue("id")
	if !h.authorizeAuthor(w, r, id, subjectID) {
		return
	}

	if err := h.store.DeletePost(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "post not found")
			return
		}
		h.log.Error("content.post.delete.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := authapi.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}

	var req commentRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
		return
	}
	if req.PostID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "postId is required")
		return
	}
	if err := ValidateComment(req.Content); err != nil {
		h.writeValidationError(w, err)
		return
	}

	c, err := h.store.CreateComment(r.Context(), CreateCommentInput{
		PostID:   req.PostID,
		AuthorID: subjectID,
		Content:  req.Content,
		Now:      time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "post not found")
			return
		}
		h.log.Error("content.comment.create.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, toCommentResponse(c))
}

func (h *Handler) handleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.store.ListComments(r.Context(), r.PathValue("postID"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "post not found")
			return
		}
		h.log.Error("content.comment.list.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return
	}

	out := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

// authorizeAuthor loads the post and checks ownership. Edits and deletes are
// author-only.
func (h *Handler) authorizeAuthor(w http.ResponseWriter, r *http.Request, postID, subjectID string) bool {
	p, err := h.store.GetPost(r.Context(), postID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "post not found")
			return false
		}
		h.log.Error("content.post.load.fail", "err", err)
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
		return false
	}
	if p.AuthorID != subjectID {
		writeError(w, http.StatusForbidden, "forbidden", "not the author")
		return false
	}
	return true
}

func (h *Handler) writeValidationError(w http.ResponseWriter, err error) {
	var ve ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: apiError{
			Code:    "invalid_request",
			Message: ve.Msg,
			Field:   ve.Field,
		}})
		return
	}
	writeError(w, http.StatusBadRequest, "invalid_request", "invalid input")
}

// ---- JSON plumbing ----

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type errorResponse struct {
	Error apiError `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: apiError{Code: code, Message: msg}})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	defer func() { _ = r.Body.Close() }()

	body := http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("extra data after JSON object")
	}
	return nil
}
