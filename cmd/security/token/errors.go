package token

import "errors"

// Public, stable errors for callers.
var (
	// ErrInvalidToken covers every verification failure: bad signature, wrong
	// purpose, expired, malformed. Callers must not distinguish further.
	ErrInvalidToken = errors.New("invalid token")

	// ErrConfig is returned for invalid codec configuration.
	ErrConfig = errors.New("invalid token config")

	ErrHMACKeyMissing  = errors.New("token HMAC key missing")
	ErrHMACKeyTooShort = errors.New("token HMAC key too short")
)
