package identity

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryRepository is an in-memory Repository for tests and for running the
// server without a database. It enforces the same uniqueness contract as the
// Postgres repository: the insert under lock is the authoritative check, and
// a double collision reports the email field first.
type MemoryRepository struct {
	mu sync.RWMutex

	byID       map[string]Account
	byUsername map[string]string // username_norm -> id
	byEmail    map[string]string // email_norm -> id
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:       make(map[string]Account),
		byUsername: make(map[string]string),
		byEmail:    make(map[string]string),
	}
}

// Create inserts a new account, enforcing username/email uniqueness under the
// repository lock.
func (r *MemoryRepository) Create(ctx context.Context, in CreateAccountInput) (Account, error) {
	const op = "identity.Create"

	if err := ctx.Err(); err != nil {
		return Account{}, err
	}

	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	name := strings.TrimSpace(in.Name)

	if username == "" {
		return Account{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "username is required"}
	}
	if email == "" {
		return Account{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "email is required"}
	}
	if name == "" {
		return Account{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "name is required"}
	}
	if strings.TrimSpace(in.PasswordHash) == "" {
		return Account{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "password hash is required"}
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	id, err := NewULID(now)
	if err != nil {
		return Account{}, err
	}

	unorm := NormalizeUsername(username)
	enorm := NormalizeEmail(email)

	r.mu.Lock()
	defer r.mu.Unlock()

	// Email before username so a double collision reports email.
	if _, taken := r.byEmail[enorm]; taken {
		return Account{}, ConflictError{Op: op, Field: "email"}
	}
	if _, taken := r.byUsername[unorm]; taken {
		return Account{}, ConflictError{Op: op, Field: "username"}
	}

	acc := Account{
		ID:           id,
		Username:     username,
		Email:        email,
		Name:         name,
		PasswordHash: in.PasswordHash,
		CreatedAt:    now,
	}

	r.byID[id] = acc
	r.byUsername[unorm] = id
	r.byEmail[enorm] = id

	return acc, nil
}

// FindByUsername looks up an account by normalized username.
func (r *MemoryRepository) FindByUsername(ctx context.Context, username string) (Account, error) {
	const op = "identity.FindByUsername"

	if err := ctx.Err(); err != nil {
		return Account{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[NormalizeUsername(username)]
	if !ok {
		return Account{}, NotFoundError{Op: op, Resource: "account"}
	}
	return r.byID[id], nil
}

// GetByID looks up an account by its ULID.
func (r *MemoryRepository) GetByID(ctx context.Context, id string) (Account, error) {
	const op = "identity.GetByID"

	if err := ctx.Err(); err != nil {
		return Account{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, ok := r.byID[strings.TrimSpace(id)]
	if !ok {
		return Account{}, NotFoundError{Op: op, Resource: "account"}
	}
	return acc, nil
}

// ExistsByEmail reports whether an account with this (normalized) email exists.
func (r *MemoryRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byEmail[NormalizeEmail(email)]
	return ok, nil
}

// ExistsByUsername reports whether an account with this (normalized) username exists.
func (r *MemoryRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byUsername[NormalizeUsername(username)]
	return ok, nil
}
