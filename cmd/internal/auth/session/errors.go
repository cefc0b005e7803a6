package session

import "errors"

var (
	// ErrConfig indicates invalid or missing session configuration.
	ErrConfig = errors.New("session: invalid config")

	// ErrUnauthorized is the single error returned for every authentication
	// failure: unknown account, wrong password, invalid or expired credential,
	// or a refresh token with no live server-side record. Callers must not be
	// able to tell these apart.
	ErrUnauthorized = errors.New("session: unauthorized")
)
