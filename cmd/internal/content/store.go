package content

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	titleMaxLen   = 200
	contentMaxLen = 50_000
	commentMaxLen = 2_000
)

// Post is a published article.
type Post struct {
	ID        string
	AuthorID  string
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Comment is a reply attached to a post.
type Comment struct {
	ID        string
	PostID    string
	AuthorID  string
	Content   string
	CreatedAt time.Time
}

// CreatePostInput describes a new post before validation.
type CreatePostInput struct {
	AuthorID string
	Title    string
	Content  string
	Now      time.Time
}

// UpdatePostInput describes an edit to an existing post.
type UpdatePostInput struct {
	ID      string
	Title   string
	Content string
	Now     time.Time
}

// CreateCommentInput describes a new comment before validation.
type CreateCommentInput struct {
	PostID   string
	AuthorID string
	Content  string
	Now      time.Time
}

// Store abstracts post/comment persistence.
//
// DeletePost removes the post's comments with it; a comment never outlives
// its post.
type Store interface {
	CreatePost(ctx context.Context, in CreatePostInput) (Post, error)
	GetPost(ctx context.Context, id string) (Post, error)
	ListPosts(ctx context.Context) ([]Post, error)
	UpdatePost(ctx context.Context, in UpdatePostInput) (Post, error)
	DeletePost(ctx context.Context, id string) error

	CreateComment(ctx context.Context, in CreateCommentInput) (Comment, error)
	ListComments(ctx context.Context, postID string) ([]Comment, error)
}

// ValidatePost checks the shared title/content rules. Validation
// short-circuits on the first failing field.
func ValidatePost(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return ValidationError{Field: "title", Msg: "title is required"}
	}
	if utf8.RuneCountInString(title) > titleMaxLen {
		return ValidationError{Field: "title", Msg: "title is too long"}
	}
	if strings.TrimSpace(content) == "" {
		return ValidationError{Field: "content", Msg: "content is required"}
	}
	if utf8.RuneCountInString(content) > contentMaxLen {
		return ValidationError{Field: "content", Msg: "content is too long"}
	}
	return nil
}

// ValidateComment checks a comment body.
func ValidateComment(content string) error {
	if strings.TrimSpace(content) == "" {
		return ValidationError{Field: "content", Msg: "content is required"}
	}
	if utf8.RuneCountInString(content) > commentMaxLen {
		return ValidationError{Field: "content", Msg: "content is too long"}
	}
	return nil
}
