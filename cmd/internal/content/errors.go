package content

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports a missing post or comment.
	ErrNotFound = errors.New("content: not found")

	// ErrForbidden reports an operation on somebody else's post.
	ErrForbidden = errors.New("content: forbidden")
)

// ValidationError reports a malformed input field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("content validation: %s: %s", e.Field, e.Msg)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
