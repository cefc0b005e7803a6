package content

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

	"quill/cmd/identity/ids"
)

// PostgresStore implements post/comment persistence over PostgreSQL.
//
// Design notes:
//   - The pgx pool is owned by the caller; this store must NOT close it.
//   - comments.post_id references posts.id ON DELETE CASCADE, so DeletePost
//     is a single statement and a comment never outlives its post.
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
			return fmt.Errorf("content: empty schema")
		}
		if !pgIdentRe.MatchString(schema) {
			return fmt.Errorf("content: invalid schema identifier")
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
		return nil, fmt.Errorf("content: nil pool")
	}
	return st, nil
}

func (s *PostgresStore) ident(name string) string {
	return pgx.Identifier{s.schema, name}.Sanitize()
}

const postColumns = "id, author_id, title, content, created_at, updated_at"

// CreatePost inserts a new post.
func (s *PostgresStore) CreatePost(ctx context.Context, in CreatePostInput) (Post, error) {
	if err := ctx.Err(); err != nil {
		return Post{}, err
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	id, err := ids.NewULID(now)
	if err != nil {
		return Post{}, err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO `+s.ident("posts")+` (id, author_id, title, content, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5)`,
		id, in.AuthorID, strings.TrimSpace(in.Title), in.Content, now,
	)
	if err != nil {
		if pgIsForeignKeyViolation(err) {
			return Post{}, ErrNotFound
		}
		return Post{}, err
	}

	return Post{
		ID:        id,
		AuthorID:  in.AuthorID,
		Title:     strings.TrimSpace(in.Title),
		Content:   in.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GetPost looks up a post by id.
func (s *PostgresStore) GetPost(ctx context.Context, id string) (Post, error) {
	if err := ctx.Err(); err != nil {
		return Post{}, err
	}

	var p Post
	err := s.pool.QueryRow(ctx,
		`SELECT `+postColumns+` FROM `+s.ident("posts")+` WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.AuthorID, &p.Title, &p.Content, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Post{}, ErrNotFound
		}
		return Post{}, err
	}
	return p, nil
}

// ListPosts returns all posts, newest first.
func (s *PostgresStore) ListPosts(ctx context.Context) ([]Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+postColumns+` FROM `+s.ident("posts")+` ORDER BY id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Post, 0)
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Content, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdatePost replaces a post's title and content.
func (s *PostgresStore) UpdatePost(ctx context.Context, in UpdatePostInput) (Post, error) {
	if err := ctx.Err(); err != nil {
		return Post{}, err
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var p Post
	err := s.pool.QueryRow(ctx,
		`UPDATE `+s.ident("posts")+`
		    SET title = $1, content = $2, updated_at = $3
		  WHERE id = $4
		 RETURNING `+postColumns,
		strings.TrimSpace(in.Title), in.Content, now, in.ID,
	).Scan(&p.ID, &p.AuthorID, &p.Title, &p.Content, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Post{}, ErrNotFound
		}
		return Post{}, err
	}
	return p, nil
}

// DeletePost removes a post; its comments go with it via ON DELETE CASCADE.
func (s *PostgresStore) DeletePost(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ct, err := s.pool.Exec(ctx,
		`DELETE FROM `+s.ident("posts")+` WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateComment inserts a comment under an existing post.
func (s *PostgresStore) CreateComment(ctx context.Context, in CreateCommentInput) (Comment, error) {
	if err := ctx.Err(); err != nil {
		return Comment{}, err
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	id, err := ids.NewULID(now)
	if err != nil {
		return Comment{}, err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO `+s.ident("comments")+` (id, post_id, author_id, content, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, in.PostID, in.AuthorID, in.Content, now,
	)
	if err != nil {
		if pgIsForeignKeyViolation(err) {
			return Comment{}, ErrNotFound
		}
		return Comment{}, err
	}

	return Comment{
		ID:        id,
		PostID:    in.PostID,
		AuthorID:  in.AuthorID,
		Content:   in.Content,
		CreatedAt: now,
	}, nil
}

// ListComments returns a post's comments, oldest first.
func (s *PostgresStore) ListComments(ctx context.Context, postID string) ([]Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Distinguish "no comments" from "no such post".
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM `+s.ident("posts")+` WHERE id = $1)`,
		postID,
	).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, post_id, author_id, content, created_at
		   FROM `+s.ident("comments")+`
		  WHERE post_id = $1
		  ORDER BY id ASC`,
		postID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Comment, 0)
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func pgIsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23503" // foreign_key_violation
}
