package password

import "errors"

// Public, stable errors for callers.
var (
	ErrPasswordTooShort    = errors.New("password too short")
	ErrPasswordTooLong     = errors.New("password too long")
	ErrPasswordWeak        = errors.New("password missing required character class")
	ErrPasswordBadAlphabet = errors.New("password contains characters outside the allowed alphabet")
	ErrInvalidHash         = errors.New("invalid password hash")
)
