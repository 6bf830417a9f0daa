package simplefeed

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// NoopEventSink is a no-operation implementation of EventSink
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

func (n *NoopEventSink) UserCreated(ctx context.Context, user *User) error { return nil }

func (n *NoopEventSink) UserFollowed(ctx context.Context, followerID, followeeID uuid.UUID) error {
	return nil
}

func (n *NoopEventSink) UserUnfollowed(ctx context.Context, followerID, followeeID uuid.UUID) error {
	return nil
}

func (n *NoopEventSink) PostCreated(ctx context.Context, post *Post) error { return nil }

func (n *NoopEventSink) PostUpdated(ctx context.Context, post *Post) error { return nil }

func (n *NoopEventSink) PostLiked(ctx context.Context, postID, userID uuid.UUID) error { return nil }

func (n *NoopEventSink) PostUnliked(ctx context.Context, postID, userID uuid.UUID) error { return nil }

// LoggingEventSink is an event sink that logs events but takes no other action.
// Useful for development and debugging
type LoggingEventSink struct {
	logger *slog.Logger
}

// NewLoggingEventSink creates a new logging event sink. A nil logger uses slog.Default().
func NewLoggingEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingEventSink{logger: logger.With("component", "events")}
}

func (l *LoggingEventSink) UserCreated(ctx context.Context, user *User) error {
	l.logger.InfoContext(ctx, "User created", "user_id", user.ID(), "name", user.Info().Name)
	return nil
}

func (l *LoggingEventSink) UserFollowed(ctx context.Context, followerID, followeeID uuid.UUID) error {
	l.logger.InfoContext(ctx, "User followed", "follower_id", followerID, "followee_id", followeeID)
	return nil
}

func (l *LoggingEventSink) UserUnfollowed(ctx context.Context, followerID, followeeID uuid.UUID) error {
	l.logger.InfoContext(ctx, "User unfollowed", "follower_id", followerID, "followee_id", followeeID)
	return nil
}

func (l *LoggingEventSink) PostCreated(ctx context.Context, post *Post) error {
	l.logger.InfoContext(ctx, "Post created", "post_id", post.ID(), "author_id", post.Author().ID())
	return nil
}

func (l *LoggingEventSink) PostUpdated(ctx context.Context, post *Post) error {
	l.logger.InfoContext(ctx, "Post updated", "post_id", post.ID(), "state", post.State())
	return nil
}

func (l *LoggingEventSink) PostLiked(ctx context.Context, postID, userID uuid.UUID) error {
	l.logger.InfoContext(ctx, "Post liked", "post_id", postID, "user_id", userID)
	return nil
}

func (l *LoggingEventSink) PostUnliked(ctx context.Context, postID, userID uuid.UUID) error {
	l.logger.InfoContext(ctx, "Post unliked", "post_id", postID, "user_id", userID)
	return nil
}
