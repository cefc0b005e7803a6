// Package session implements Quill's session lifecycle: registration, login,
// refresh rotation, logout, and stateless request authentication.
//
// Sessions are a signed access/refresh credential pair. The access credential
// is verified statelessly on every request. The refresh credential is also
// recorded server-side (hashed), one live record per account, so that refresh
// is single-use and a new login displaces the previous session.
//
// All authentication failures collapse to ErrUnauthorized at the service
// boundary; the specific reason is logged internally and never returned to
// callers.
package session
