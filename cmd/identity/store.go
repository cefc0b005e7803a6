package identity

import (
	"context"
	"time"
)

// Account is Quill's canonical security principal.
// PasswordHash never leaves this package's callers except through Safe().
type Account struct {
	ID           string
	Username     string
	Email        string
	Name         string
	PasswordHash string

	CreatedAt time.Time
}

// Profile is the safe projection of an Account: everything but the password
// hash. It is the only account shape ever returned to API callers or attached
// to request contexts.
type Profile struct {
	ID        string
	Username  string
	Email     string
	Name      string
	CreatedAt time.Time
}

// Safe returns the account's safe projection.
func (a Account) Safe() Profile {
	return Profile{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Name:      a.Name,
		CreatedAt: a.CreatedAt,
	}
}

// CreateAccountInput describes a registration request after validation.
// PasswordHash must already be an encoded Argon2id hash.
type CreateAccountInput struct {
	Username     string
	Email        string
	Name         string
	PasswordHash string
	Now          time.Time
}

// Repository is the account persistence boundary.
//
// Uniqueness contract:
//   - Create relies on storage-level unique constraints over the normalized
//     username and email, and reports ConflictError{Field: ...} when one
//     trips. The insert itself is the authoritative uniqueness check; there
//     is no check-then-act window.
type Repository interface {
	Create(ctx context.Context, in CreateAccountInput) (Account, error)
	FindByUsername(ctx context.Context, username string) (Account, error)
	GetByID(ctx context.Context, id string) (Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}
