package simplefeed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// maxMutationAttempts bounds retries of a mutation that lost an optimistic-lock race.
const maxMutationAttempts = 3

// service implements the Service interface
type service struct {
	repository Repository
	eventSink  EventSink
	logger     *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// WithLogger sets the logger used for non-fatal failures
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.eventSink == nil {
		s.eventSink = NewNoopEventSink()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}

// User operations

func (s *service) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	info, err := NewUserInfo(req.Name, req.ProfileImageURL)
	if err != nil {
		return nil, err
	}
	user, err := NewUser(uuid.New(), info)
	if err != nil {
		return nil, err
	}

	if err := s.repository.CreateUser(ctx, user); err != nil {
		return nil, &UserError{UserID: user.ID(), Op: "create", Err: err}
	}

	created, err := s.GetUser(ctx, user.ID())
	if err != nil {
		return nil, err
	}

	if err := s.eventSink.UserCreated(ctx, created); err != nil {
		s.logger.Warn("Failed to publish event", "event", "user_created", "user_id", created.ID(), "error", err)
	}
	return created, nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := s.repository.GetUser(ctx, id)
	if err != nil {
		return nil, &UserError{UserID: id, Op: "get", Err: err}
	}
	return user, nil
}

func (s *service) FollowUser(ctx context.Context, req FollowRequest) error {
	err := s.withRetry(ctx, "follow", func() error {
		actor, target, err := s.loadUserPair(ctx, req)
		if err != nil {
			return err
		}
		if err := actor.Follow(target); err != nil {
			return err
		}
		if err := s.repository.SaveFollow(ctx, actor, target); err != nil {
			return &UserError{UserID: actor.ID(), Op: "follow", Err: err}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.eventSink.UserFollowed(ctx, req.UserID, req.TargetID); err != nil {
		s.logger.Warn("Failed to publish event", "event", "user_followed", "user_id", req.UserID, "error", err)
	}
	return nil
}

func (s *service) UnfollowUser(ctx context.Context, req FollowRequest) error {
	err := s.withRetry(ctx, "unfollow", func() error {
		actor, target, err := s.loadUserPair(ctx, req)
		if err != nil {
			return err
		}
		if err := actor.Unfollow(target); err != nil {
			return err
		}
		if err := s.repository.SaveUnfollow(ctx, actor, target); err != nil {
			return &UserError{UserID: actor.ID(), Op: "unfollow", Err: err}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.eventSink.UserUnfollowed(ctx, req.UserID, req.TargetID); err != nil {
		s.logger.Warn("Failed to publish event", "event", "user_unfollowed", "user_id", req.UserID, "error", err)
	}
	return nil
}

func (s *service) loadUserPair(ctx context.Context, req FollowRequest) (*User, *User, error) {
	actor, err := s.GetUser(ctx, req.UserID)
	if err != nil {
		return nil, nil, err
	}
	target, err := s.GetUser(ctx, req.TargetID)
	if err != nil {
		return nil, nil, err
	}
	return actor, target, nil
}

// Post operations

func (s *service) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	author, err := s.GetUser(ctx, req.AuthorID)
	if err != nil {
		return nil, err
	}
	content, err := NewPostContent(req.Text)
	if err != nil {
		return nil, err
	}
	post, err := NewPost(uuid.New(), author, content)
	if err != nil {
		return nil, err
	}

	if err := s.repository.CreatePost(ctx, post); err != nil {
		return nil, &PostError{PostID: post.ID(), Op: "create", Err: err}
	}

	created, err := s.GetPost(ctx, post.ID())
	if err != nil {
		return nil, err
	}

	if err := s.eventSink.PostCreated(ctx, created); err != nil {
		s.logger.Warn("Failed to publish event", "event", "post_created", "post_id", created.ID(), "error", err)
	}
	return created, nil
}

func (s *service) GetPost(ctx context.Context, id uuid.UUID) (*Post, error) {
	post, err := s.repository.GetPost(ctx, id)
	if err != nil {
		return nil, &PostError{PostID: id, Op: "get", Err: err}
	}
	return post, nil
}

func (s *service) UpdatePost(ctx context.Context, req UpdatePostRequest) (*Post, error) {
	if req.Text == nil && req.State == nil {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidArgument)
	}

	err := s.withRetry(ctx, "update_post", func() error {
		post, user, err := s.loadPostAndUser(ctx, req.PostID, req.UserID)
		if err != nil {
			return err
		}
		// Omitted fields are merged against the copy loaded in this attempt.
		text, state := post.Content().Text(), post.State()
		if req.Text != nil {
			text = *req.Text
		}
		if req.State != nil {
			state = *req.State
		}
		if err := post.UpdatePost(user, text, state); err != nil {
			return err
		}
		if err := s.repository.UpdatePost(ctx, post); err != nil {
			return &PostError{PostID: post.ID(), Op: "update", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.GetPost(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	if err := s.eventSink.PostUpdated(ctx, updated); err != nil {
		s.logger.Warn("Failed to publish event", "event", "post_updated", "post_id", updated.ID(), "error", err)
	}
	return updated, nil
}

func (s *service) LikePost(ctx context.Context, req LikeRequest) (*Post, error) {
	err := s.withRetry(ctx, "like", func() error {
		post, user, err := s.loadPostAndUser(ctx, req.PostID, req.UserID)
		if err != nil {
			return err
		}
		if err := post.Like(user); err != nil {
			return err
		}
		if err := s.repository.SaveLike(ctx, post, user.ID()); err != nil {
			return &PostError{PostID: post.ID(), Op: "like", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	liked, err := s.GetPost(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	if err := s.eventSink.PostLiked(ctx, req.PostID, req.UserID); err != nil {
		s.logger.Warn("Failed to publish event", "event", "post_liked", "post_id", req.PostID, "error", err)
	}
	return liked, nil
}

func (s *service) UnlikePost(ctx context.Context, req LikeRequest) (*Post, error) {
	err := s.withRetry(ctx, "unlike", func() error {
		post, user, err := s.loadPostAndUser(ctx, req.PostID, req.UserID)
		if err != nil {
			return err
		}
		post.Unlike(user)
		if err := s.repository.SaveUnlike(ctx, post, user.ID()); err != nil {
			return &PostError{PostID: post.ID(), Op: "unlike", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	unliked, err := s.GetPost(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	if err := s.eventSink.PostUnliked(ctx, req.PostID, req.UserID); err != nil {
		s.logger.Warn("Failed to publish event", "event", "post_unliked", "post_id", req.PostID, "error", err)
	}
	return unliked, nil
}

func (s *service) loadPostAndUser(ctx context.Context, postID, userID uuid.UUID) (*Post, *User, error) {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return post, user, nil
}

// withRetry runs fn, reloading and retrying when it loses an optimistic-lock race.
func (s *service) withRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxMutationAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err = fn()
		if !errors.Is(err, ErrConflict) {
			return err
		}
		s.logger.Warn("Concurrent modification, retrying", "op", op, "attempt", attempt)
	}
	return err
}
