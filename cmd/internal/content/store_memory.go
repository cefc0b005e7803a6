package content

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"quill/cmd/identity/ids"
)

// MemoryStore is an in-memory Store for tests and for running the server
// without a database.
type MemoryStore struct {
	mu sync.RWMutex

	posts    map[string]Post
	comments map[string]Comment
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		posts:    make(map[string]Post),
		comments: make(map[string]Comment),
	}
}

// CreatePost inserts a new post.
func (s *MemoryStore) CreatePost(ctx context.Context, in CreatePostInput) (Post, error) {
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

	p := Post{
		ID:        id,
		AuthorID:  in.AuthorID,
		Title:     strings.TrimSpace(in.Title),
		Content:   in.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[id] = p
	return p, nil
}

// GetPost looks up a post by id.
func (s *MemoryStore) GetPost(ctx context.Context, id string) (Post, error) {
	if err := ctx.Err(); err != nil {
		return Post{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return Post{}, ErrNotFound
	}
	return p, nil
}

// ListPosts returns all posts, newest first.
func (s *MemoryStore) ListPosts(ctx context.Context) ([]Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, p)
	}
	// ULIDs sort by creation time, so newest first is a reverse id sort.
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// UpdatePost replaces a post's title and content.
func (s *MemoryStore) UpdatePost(ctx context.Context, in UpdatePostInput) (Post, error) {
	if err := ctx.Err(); err != nil {
		return Post{}, err
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[in.ID]
	if !ok {
		return Post{}, ErrNotFound
	}
	p.Title = strings.TrimSpace(in.Title)
	p.Content = in.Content
	p.UpdatedAt = now
	s.posts[in.ID] = p
	return p, nil
}

// DeletePost removes a post and all of its comments.
func (s *MemoryStore) DeletePost(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return ErrNotFound
	}
	delete(s.posts, id)
	for cid, c := range s.comments {
		if c.PostID == id {
			delete(s.comments, cid)
		}
	}
	return nil
}

// CreateComment inserts a comment under an existing post.
func (s *MemoryStore) CreateComment(ctx context.Context, in CreateCommentInput) (Comment, error) {
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

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[in.PostID]; !ok {
		return Comment{}, ErrNotFound
	}

	c := Comment{
		ID:        id,
		PostID:    in.PostID,
		AuthorID:  in.AuthorID,
		Content:   in.Content,
		CreatedAt: now,
	}
	s.comments[id] = c
	return c, nil
}

// ListComments returns a post's comments, oldest first.
func (s *MemoryStore) ListComments(ctx context.Context, postID string) ([]Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.posts[postID]; !ok {
		return nil, ErrNotFound
	}

	out := make([]Comment, 0)
	for _, c := range s.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
