package password

import "unicode/utf8"

// Validate checks password policy. It does not mutate input.
//
// The checks run in a fixed order (length, alphabet, classes) so the caller
// always gets the same error for the same input.
func (c Config) Validate(password string) error {
	n := utf8.RuneCountInString(password)

	if n < c.Policy.MinLength {
		return ErrPasswordTooShort
	}
	if n > c.Policy.MaxLength {
		return ErrPasswordTooLong
	}

	var hasLower, hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			if c.Policy.AlphanumericOnly {
				return ErrPasswordBadAlphabet
			}
		}
	}

	if c.Policy.RequireLower && !hasLower {
		return ErrPasswordWeak
	}
	if c.Policy.RequireUpper && !hasUpper {
		return ErrPasswordWeak
	}
	if c.Policy.RequireDigit && !hasDigit {
		return ErrPasswordWeak
	}

	return nil
}
