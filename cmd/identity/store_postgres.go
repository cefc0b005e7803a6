package identity

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements account persistence over PostgreSQL.
//
// Design notes:
//   - The pgx pool is owned by the caller; this repository must NOT close it.
//   - Schema/table identifiers are safely quoted to avoid SQL injection via
//     identifiers.
//   - Uniqueness is enforced by unique indexes over the normalized username
//     and email columns. The INSERT is the authoritative check; unique
//     violations are classified into ConflictError by constraint name.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	schema string
}

// PostgresOption configures the repository.
type PostgresOption func(*PostgresRepository) error

var pgIdentRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// WithSchema sets the Postgres schema used by the account repository
// (default "quill"). The schema name is validated to be a legal PostgreSQL
// identifier.
func WithSchema(schema string) PostgresOption {
	return func(r *PostgresRepository) error {
		schema = strings.TrimSpace(schema)
		if schema == "" {
			return fmt.Errorf("identity: empty schema")
		}
		if !pgIdentIsValid(schema) {
			return fmt.Errorf("identity: invalid schema identifier")
		}
		r.schema = schema
		return nil
	}
}

// NewPostgresRepository constructs a PostgresRepository with secure defaults.
func NewPostgresRepository(pool *pgxpool.Pool, opts ...PostgresOption) (*PostgresRepository, error) {
	repo := &PostgresRepository{
		pool:   pool,
		schema: "quill",
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(repo); err != nil {
			return nil, err
		}
	}
	if repo.pool == nil {
		return nil, fmt.Errorf("identity: nil pool")
	}
	return repo, nil
}

const accountColumns = "id, username, email, name, password_hash, created_at"

// Create inserts a new account row.
//
// Conflicts surface as ConflictError with Field "username" or "email",
// classified from the violated constraint.
func (r *PostgresRepository) Create(ctx context.Context, in CreateAccountInput) (Account, error) {
	const op = "identity.Create"

	if r == nil || r.pool == nil {
		return Account{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil repository"}
	}
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}

	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	name := strings.TrimSpace(in.Name)

	if username == "" {
		return Account{}, pgInvalid(op, "username is required")
	}
	if email == "" {
		return Account{}, pgInvalid(op, "email is required")
	}
	if name == "" {
		return Account{}, pgInvalid(op, "name is required")
	}
	if strings.TrimSpace(in.PasswordHash) == "" {
		return Account{}, pgInvalid(op, "password hash is required")
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	id, err := NewULID(now)
	if err != nil {
		return Account{}, err
	}

	accounts := pgIdent(r.schema, "accounts")

	_, err = r.pool.Exec(ctx,
		`INSERT INTO `+accounts+` (
		     id, username, username_norm, email, email_norm, name, password_hash, created_at
		   ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id,
		username,
		NormalizeUsername(username),
		email,
		NormalizeEmail(email),
		name,
		in.PasswordHash,
		now,
	)
	if err != nil {
		if field, ok := pgClassifyUniqueViolation(err); ok {
			return Account{}, ConflictError{Op: op, Field: field}
		}
		return Account{}, err
	}

	return Account{
		ID:           id,
		Username:     username,
		Email:        email,
		Name:         name,
		PasswordHash: in.PasswordHash,
		CreatedAt:    now,
	}, nil
}

// FindByUsername looks up an account by normalized username.
func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (Account, error) {
	const op = "identity.FindByUsername"

	if r == nil || r.pool == nil {
		return Account{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil repository"}
	}
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}

	norm := NormalizeUsername(username)
	if norm == "" {
		return Account{}, pgInvalid(op, "username is required")
	}

	accounts := pgIdent(r.schema, "accounts")

	var out Account
	err := r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+`
		   FROM `+accounts+`
		  WHERE username_norm = $1`,
		norm,
	).Scan(&out.ID, &out.Username, &out.Email, &out.Name, &out.PasswordHash, &out.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, NotFoundError{Op: op, Resource: "account"}
		}
		return Account{}, err
	}
	return out, nil
}

// GetByID looks up an account by its ULID.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Account, error) {
	const op = "identity.GetByID"

	if r == nil || r.pool == nil {
		return Account{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil repository"}
	}
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return Account{}, pgInvalid(op, "missing id")
	}

	accounts := pgIdent(r.schema, "accounts")

	var out Account
	err := r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+`
		   FROM `+accounts+`
		  WHERE id = $1`,
		id,
	).Scan(&out.ID, &out.Username, &out.Email, &out.Name, &out.PasswordHash, &out.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, NotFoundError{Op: op, Resource: "account"}
		}
		return Account{}, err
	}
	return out, nil
}

// ExistsByEmail reports whether an account with this (normalized) email exists.
func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.existsBy(ctx, "identity.ExistsByEmail", "email_norm", NormalizeEmail(email))
}

// ExistsByUsername reports whether an account with this (normalized) username exists.
func (r *PostgresRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.existsBy(ctx, "identity.ExistsByUsername", "username_norm", NormalizeUsername(username))
}

func (r *PostgresRepository) existsBy(ctx context.Context, op, column, value string) (bool, error) {
	if r == nil || r.pool == nil {
		return false, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil repository"}
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if value == "" {
		return false, pgInvalid(op, "missing value")
	}

	accounts := pgIdent(r.schema, "accounts")

	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM `+accounts+` WHERE `+column+` = $1)`,
		value,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// ---- helpers ----

// pgInvalid standardizes invalid input errors.
func pgInvalid(op, msg string) error {
	return OpError{Op: op, Kind: ErrInvalidInput, Msg: msg}
}

// pgIdentIsValid checks if a string is a safe Postgres identifier.
func pgIdentIsValid(s string) bool {
	return pgIdentRe.MatchString(s)
}

// pgIdent safely quotes a schema-qualified identifier: "schema"."name".
func pgIdent(schema, name string) string {
	return pgx.Identifier{schema, name}.Sanitize()
}

func pgClassifyUniqueViolation(err error) (field string, ok bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}
	if pgErr.Code != "23505" { // unique_violation
		return "", false
	}

	// Prefer stable schema constraint names, fall back to substring matching.
	c := strings.ToLower(strings.TrimSpace(pgErr.ConstraintName))

	switch c {
	case "uq_accounts_username_norm":
		return "username", true
	case "uq_accounts_email_norm":
		return "email", true
	default:
		switch {
		case strings.Contains(c, "username"):
			return "username", true
		case strings.Contains(c, "email"):
			return "email", true
		default:
			return "unique", true
		}
	}
}
