package identity

import (
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"

	"quill/cmd/security/password"
)

// Public input contract:
//   - username: required, 5-30 chars
//   - name:     required, at most 30 chars
//   - email:    required, a parseable address
//   - password: required, 8-25 chars of [A-Za-z0-9] with at least one
//     lowercase, one uppercase, and one digit
//
// Validation always short-circuits on the first failing field; nothing is
// mutated before validation passes.

const (
	usernameMinLen = 5
	usernameMaxLen = 30
	nameMaxLen     = 30
	emailMaxLen    = 254
)

// ValidateUsername checks the username shape shared by registration and login.
func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(username))
	if n == 0 {
		return ValidationError{Field: "username", Msg: "username is required"}
	}
	if n < usernameMinLen {
		return ValidationError{Field: "username", Msg: "username must be at least 5 characters"}
	}
	if n > usernameMaxLen {
		return ValidationError{Field: "username", Msg: "username must be at most 30 characters"}
	}
	return nil
}

// ValidateName checks the display name shape.
func ValidateName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n == 0 {
		return ValidationError{Field: "name", Msg: "name is required"}
	}
	if n > nameMaxLen {
		return ValidationError{Field: "name", Msg: "name must be at most 30 characters"}
	}
	return nil
}

// ValidateEmail checks that email parses as a single address.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Msg: "email is required"}
	}
	if len(email) > emailMaxLen {
		return ValidationError{Field: "email", Msg: "email is too long"}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ValidationError{Field: "email", Msg: "email is not a valid address"}
	}
	return nil
}

// ValidatePassword checks the password shape against the package policy.
// The same rule applies at registration and login so that login input errors
// cannot be used to probe which accounts exist.
func ValidatePassword(pw string) error {
	cfg, err := password.FromEnv()
	if err != nil {
		return err
	}
	if err := cfg.Validate(pw); err != nil {
		switch {
		case errors.Is(err, password.ErrPasswordTooShort):
			return ValidationError{Field: "password", Msg: "password must be at least 8 characters"}
		case errors.Is(err, password.ErrPasswordTooLong):
			return ValidationError{Field: "password", Msg: "password must be at most 25 characters"}
		case errors.Is(err, password.ErrPasswordWeak):
			return ValidationError{Field: "password", Msg: "password needs a lowercase letter, an uppercase letter, and a digit"}
		case errors.Is(err, password.ErrPasswordBadAlphabet):
			return ValidationError{Field: "password", Msg: "password may only contain letters and digits"}
		default:
			return err
		}
	}
	return nil
}

// ValidateConfirmation checks that the password confirmation matches.
func ValidateConfirmation(pw, confirm string) error {
	if pw != confirm {
		return ValidationError{Field: "confirmPassword", Msg: "passwords do not match"}
	}
	return nil
}
