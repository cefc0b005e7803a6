package session

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements refresh-credential persistence over PostgreSQL.
//
// Design notes:
//   - The pgx pool is owned by the caller; this store must NOT close it.
//   - The refresh_tokens table has subject_id as its primary key, so the
//     one-live-record-per-subject contract is enforced by the schema and
//     Upsert is a single INSERT ... ON CONFLICT statement.
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

// PostgresOption configures the store.
type PostgresOption func(*PostgresStore) error

var pgIdentRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// WithSchema sets the Postgres schema used by the store (default "quill").
func WithSchema(schema string) PostgresOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if schema == "" {
			return fmt.Errorf("session: empty schema")
		}
		if !pgIdentRe.MatchString(schema) {
			return fmt.Errorf("session: invalid schema identifier")
		}
		s.schema = schema
		return nil
	}
}

// NewPostgresStore constructs a PostgresStore with secure defaults.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresOption) (*PostgresStore, error) {
	st := &PostgresStore{
		pool:   pool,
		schema: "quill",
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	if st.pool == nil {
		return nil, fmt.Errorf("session: nil pool")
	}
	return st, nil
}

func (s *PostgresStore) table() string {
	return pgx.Identifier{s.schema, "refresh_tokens"}.Sanitize()
}

// Upsert stores rec, replacing any previous record for the same subject.
func (s *PostgresStore) Upsert(ctx context.Context, rec Record) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("session: nil store")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(rec.SubjectID) == "" || strings.TrimSpace(rec.TokenHash) == "" {
		return fmt.Errorf("session: incomplete record")
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO `+s.table()+` (subject_id, token_hash, issued_at, expires_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (subject_id) DO UPDATE
		    SET token_hash = EXCLUDED.token_hash,
		        issued_at  = EXCLUDED.issued_at,
		        expires_at = EXCLUDED.expires_at`,
		rec.SubjectID, rec.TokenHash, rec.IssuedAt, rec.ExpiresAt,
	)
	return err
}

// Exists reports whether the subject's live record carries this token hash.
func (s *PostgresStore) Exists(ctx context.Context, subjectID, tokenHash string) (bool, error) {
	if s == nil || s.pool == nil {
		return false, fmt.Errorf("session: nil store")
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var stored string
	err := s.pool.QueryRow(ctx,
		`SELECT token_hash FROM `+s.table()+` WHERE subject_id = $1`,
		subjectID,
	).Scan(&stored)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return ctEqHex64(stored, tokenHash), nil
}

// DeleteByToken removes whichever record carries this token hash. Absent
// tokens are a no-op.
func (s *PostgresStore) DeleteByToken(ctx context.Context, tokenHash string) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("session: nil store")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.pool.Exec(ctx,
		`DELETE FROM `+s.table()+` WHERE token_hash = $1`,
		tokenHash,
	)
	return err
}
