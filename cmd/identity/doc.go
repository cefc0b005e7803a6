// Package identity implements Quill's account foundation.
//
// It contains the account repository (Postgres + in-memory), registration and
// login input validation, identifier normalization, ULID ids, and the
// password-hash facade used by the session layer.
//
// This package is intentionally dependency-light and security-first.
package identity
