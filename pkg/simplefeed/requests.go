package simplefeed

import "github.com/google/uuid"

// Request DTOs

// CreateUserRequest contains parameters for creating a user
type CreateUserRequest struct {
	Name            string
	ProfileImageURL string
}

// FollowRequest identifies the acting user and the user being (un)followed
type FollowRequest struct {
	UserID   uuid.UUID
	TargetID uuid.UUID
}

// CreatePostRequest contains parameters for creating a post
type CreatePostRequest struct {
	AuthorID uuid.UUID
	Text     string
}

// UpdatePostRequest contains parameters for updating a post.
// UserID must be the post's author. A nil Text or State keeps the stored value;
// at least one of them must be set.
type UpdatePostRequest struct {
	PostID uuid.UUID
	UserID uuid.UUID
	Text   *string
	State  *PostState
}

// LikeRequest identifies a post and the user (un)liking it
type LikeRequest struct {
	PostID uuid.UUID
	UserID uuid.UUID
}
