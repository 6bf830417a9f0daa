package simplefeed

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for user and post persistence.
//
// Writes that carry an aggregate are compare-and-swap on the aggregate's
// Version and return ErrConflict when the stored version differs. Relation
// writes (follows, likes) update the relation and the affected aggregates
// atomically.
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)

	// SaveFollow records that actor follows target and persists both users.
	// Returns ErrAlreadyFollowing if the relation exists.
	SaveFollow(ctx context.Context, actor, target *User) error
	// SaveUnfollow removes the relation and persists both users.
	// Returns ErrNotFollowing if there is no relation.
	SaveUnfollow(ctx context.Context, actor, target *User) error

	// Post operations
	CreatePost(ctx context.Context, post *Post) error
	GetPost(ctx context.Context, id uuid.UUID) (*Post, error)
	UpdatePost(ctx context.Context, post *Post) error

	// SaveLike records a like by userID and persists the post.
	// Returns ErrAlreadyLiked if the user already liked it.
	SaveLike(ctx context.Context, post *Post, userID uuid.UUID) error
	// SaveUnlike removes the like and persists the post.
	// Returns ErrNotLiked if the user has not liked it.
	SaveUnlike(ctx context.Context, post *Post, userID uuid.UUID) error
}

// EventSink defines the interface for event handling
type EventSink interface {
	// UserCreated is fired when a user is created
	UserCreated(ctx context.Context, user *User) error

	// UserFollowed is fired when followerID starts following followeeID
	UserFollowed(ctx context.Context, followerID, followeeID uuid.UUID) error

	// UserUnfollowed is fired when followerID stops following followeeID
	UserUnfollowed(ctx context.Context, followerID, followeeID uuid.UUID) error

	// PostCreated is fired when a post is created
	PostCreated(ctx context.Context, post *Post) error

	// PostUpdated is fired when a post's content or state changes
	PostUpdated(ctx context.Context, post *Post) error

	// PostLiked is fired when a user likes a post
	PostLiked(ctx context.Context, postID, userID uuid.UUID) error

	// PostUnliked is fired when a user removes a like
	PostUnliked(ctx context.Context, postID, userID uuid.UUID) error
}
