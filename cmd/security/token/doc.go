// Package token provides the credential primitives for Quill.
//
// It is the single source of truth for two concerns:
//
//   - Signed, expiring credentials: compact JWTs (HS256) carrying a subject id
//     and a purpose claim. Access and refresh credentials are signed with
//     independent secrets, so a leaked access secret cannot forge refresh
//     credentials and vice versa.
//   - Server-side refresh-token hashing: refresh credentials are persisted
//     only as a 64-char hex digest (HMAC-SHA256 when QUILL_TOKEN_HMAC_KEY is
//     set; otherwise SHA-256 for dev/back-compat).
//
// Verification failures are deliberately indistinguishable: expired, forged,
// wrong-purpose, and malformed tokens all surface as ErrInvalidToken so that
// callers cannot build an oracle out of the failure reason.
package token
