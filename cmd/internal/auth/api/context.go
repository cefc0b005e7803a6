package authapi

import "context"

type ctxKey int

const subjectKey ctxKey = iota

// WithSubject attaches an authenticated account id to the context. The
// middleware uses it after verifying the access credential; tests may use it
// to stand in for the middleware.
func WithSubject(ctx context.Context, subjectID string) context.Context {
	return context.WithValue(ctx, subjectKey, subjectID)
}

// SubjectFromContext returns the authenticated account id set by the
// middleware, if any.
func SubjectFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(subjectKey).(string)
	return id, ok && id != ""
}
