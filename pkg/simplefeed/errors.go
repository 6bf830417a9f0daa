package simplefeed

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrInvalidArgument indicates a missing reference, a self-targeted action or an invalid value
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotAuthor indicates a user other than the author attempted to modify a post.
	// It wraps ErrInvalidArgument.
	ErrNotAuthor = fmt.Errorf("%w: user is not the author of the post", ErrInvalidArgument)

	// ErrInvalidContent indicates content text failed its validation rule
	ErrInvalidContent = errors.New("invalid content")

	// ErrUserNotFound indicates a user was not found
	ErrUserNotFound = errors.New("user not found")

	// ErrPostNotFound indicates a post was not found
	ErrPostNotFound = errors.New("post not found")

	// ErrAlreadyFollowing indicates the follow relation already exists
	ErrAlreadyFollowing = errors.New("already following user")

	// ErrNotFollowing indicates the follow relation does not exist
	ErrNotFollowing = errors.New("not following user")

	// ErrAlreadyLiked indicates the user already liked the post
	ErrAlreadyLiked = errors.New("post already liked by user")

	// ErrNotLiked indicates the user has not liked the post
	ErrNotLiked = errors.New("post not liked by user")

	// ErrConflict indicates the aggregate was modified concurrently
	ErrConflict = errors.New("concurrent modification")
)

// PostError represents an error related to post operations
type PostError struct {
	PostID uuid.UUID
	Op     string
	Err    error
}

func (e *PostError) Error() string {
	return fmt.Sprintf("post operation %s failed for post %s: %v", e.Op, e.PostID, e.Err)
}

func (e *PostError) Unwrap() error {
	return e.Err
}

// UserError represents an error related to user operations
type UserError struct {
	UserID uuid.UUID
	Op     string
	Err    error
}

func (e *UserError) Error() string {
	return fmt.Sprintf("user operation %s failed for user %s: %v", e.Op, e.UserID, e.Err)
}

func (e *UserError) Unwrap() error {
	return e.Err
}
