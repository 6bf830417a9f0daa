package simplefeed

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the main interface for the simple-feed library
type Service interface {
	// User operations
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	FollowUser(ctx context.Context, req FollowRequest) error
	UnfollowUser(ctx context.Context, req FollowRequest) error

	// Post operations
	CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error)
	GetPost(ctx context.Context, id uuid.UUID) (*Post, error)
	UpdatePost(ctx context.Context, req UpdatePostRequest) (*Post, error)
	LikePost(ctx context.Context, req LikeRequest) (*Post, error)
	UnlikePost(ctx context.Context, req LikeRequest) (*Post, error)
}
