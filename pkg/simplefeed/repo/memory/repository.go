package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-feed/pkg/simplefeed"
)

type userRecord struct {
	id              uuid.UUID
	name            string
	profileImageURL string
	followerCount   int
	followingCount  int
	version         int
}

type postRecord struct {
	id           uuid.UUID
	authorID     uuid.UUID
	text         string
	createdAt    time.Time
	lastEditedAt time.Time
	edited       bool
	likeCount    int
	state        simplefeed.PostState
	version      int
}

type relationKey struct {
	from uuid.UUID
	to   uuid.UUID
}

// Repository implements simplefeed.Repository using in-memory storage.
// Aggregates are stored as flat records, so callers never share state with the store.
type Repository struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]userRecord
	posts   map[uuid.UUID]postRecord
	follows map[relationKey]time.Time // follower -> followee
	likes   map[relationKey]time.Time // post -> user
}

// New creates a new in-memory repository
func New() simplefeed.Repository {
	return &Repository{
		users:   make(map[uuid.UUID]userRecord),
		posts:   make(map[uuid.UUID]postRecord),
		follows: make(map[relationKey]time.Time),
		likes:   make(map[relationKey]time.Time),
	}
}

// User operations

func (r *Repository) CreateUser(ctx context.Context, user *simplefeed.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.ID()]; exists {
		return fmt.Errorf("user %s already exists", user.ID())
	}
	rec := toUserRecord(user)
	rec.version = 1
	r.users[user.ID()] = rec
	return nil
}

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*simplefeed.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.getUserLocked(id)
}

func (r *Repository) SaveFollow(ctx context.Context, actor, target *simplefeed.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := relationKey{from: actor.ID(), to: target.ID()}
	if _, exists := r.follows[key]; exists {
		return simplefeed.ErrAlreadyFollowing
	}
	if err := r.checkUserVersions(actor, target); err != nil {
		return err
	}

	r.follows[key] = time.Now().UTC()
	r.putUsersLocked(actor, target)
	return nil
}

func (r *Repository) SaveUnfollow(ctx context.Context, actor, target *simplefeed.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := relationKey{from: actor.ID(), to: target.ID()}
	if _, exists := r.follows[key]; !exists {
		return simplefeed.ErrNotFollowing
	}
	if err := r.checkUserVersions(actor, target); err != nil {
		return err
	}

	delete(r.follows, key)
	r.putUsersLocked(actor, target)
	return nil
}

// Post operations

func (r *Repository) CreatePost(ctx context.Context, post *simplefeed.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.posts[post.ID()]; exists {
		return fmt.Errorf("post %s already exists", post.ID())
	}
	if _, exists := r.users[post.Author().ID()]; !exists {
		return simplefeed.ErrUserNotFound
	}
	rec := toPostRecord(post)
	rec.version = 1
	r.posts[post.ID()] = rec
	return nil
}

func (r *Repository) GetPost(ctx context.Context, id uuid.UUID) (*simplefeed.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, exists := r.posts[id]
	if !exists {
		return nil, simplefeed.ErrPostNotFound
	}
	author, err := r.getUserLocked(rec.authorID)
	if err != nil {
		return nil, fmt.Errorf("load author of post %s: %w", id, err)
	}
	content, err := simplefeed.RestorePostContent(rec.text, rec.createdAt, rec.lastEditedAt, rec.edited)
	if err != nil {
		return nil, err
	}
	return simplefeed.RestorePost(rec.id, author, content, rec.likeCount, rec.state, rec.version)
}

func (r *Repository) UpdatePost(ctx context.Context, post *simplefeed.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkPostVersion(post); err != nil {
		return err
	}
	r.putPostLocked(post)
	return nil
}

func (r *Repository) SaveLike(ctx context.Context, post *simplefeed.Post, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := relationKey{from: post.ID(), to: userID}
	if _, exists := r.likes[key]; exists {
		return simplefeed.ErrAlreadyLiked
	}
	if err := r.checkPostVersion(post); err != nil {
		return err
	}

	r.likes[key] = time.Now().UTC()
	r.putPostLocked(post)
	return nil
}

func (r *Repository) SaveUnlike(ctx context.Context, post *simplefeed.Post, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := relationKey{from: post.ID(), to: userID}
	if _, exists := r.likes[key]; !exists {
		return simplefeed.ErrNotLiked
	}
	if err := r.checkPostVersion(post); err != nil {
		return err
	}

	delete(r.likes, key)
	r.putPostLocked(post)
	return nil
}

// helpers; callers hold r.mu

func (r *Repository) getUserLocked(id uuid.UUID) (*simplefeed.User, error) {
	rec, exists := r.users[id]
	if !exists {
		return nil, simplefeed.ErrUserNotFound
	}
	info := simplefeed.UserInfo{Name: rec.name, ProfileImageURL: rec.profileImageURL}
	return simplefeed.RestoreUser(rec.id, info, rec.followerCount, rec.followingCount, rec.version)
}

func (r *Repository) checkUserVersions(users ...*simplefeed.User) error {
	for _, u := range users {
		rec, exists := r.users[u.ID()]
		if !exists {
			return simplefeed.ErrUserNotFound
		}
		if rec.version != u.Version() {
			return simplefeed.ErrConflict
		}
	}
	return nil
}

func (r *Repository) putUsersLocked(users ...*simplefeed.User) {
	for _, u := range users {
		rec := toUserRecord(u)
		rec.version = u.Version() + 1
		r.users[u.ID()] = rec
	}
}

func (r *Repository) checkPostVersion(post *simplefeed.Post) error {
	rec, exists := r.posts[post.ID()]
	if !exists {
		return simplefeed.ErrPostNotFound
	}
	if rec.version != post.Version() {
		return simplefeed.ErrConflict
	}
	return nil
}

func (r *Repository) putPostLocked(post *simplefeed.Post) {
	rec := toPostRecord(post)
	rec.version = post.Version() + 1
	r.posts[post.ID()] = rec
}

func toUserRecord(u *simplefeed.User) userRecord {
	return userRecord{
		id:              u.ID(),
		name:            u.Info().Name,
		profileImageURL: u.Info().ProfileImageURL,
		followerCount:   u.FollowerCount(),
		followingCount:  u.FollowingCount(),
		version:         u.Version(),
	}
}

func toPostRecord(p *simplefeed.Post) postRecord {
	c := p.Content()
	return postRecord{
		id:           p.ID(),
		authorID:     p.Author().ID(),
		text:         c.Text(),
		createdAt:    c.CreatedAt(),
		lastEditedAt: c.LastEditedAt(),
		edited:       c.IsEdited(),
		likeCount:    p.LikeCount(),
		state:        p.State(),
		version:      p.Version(),
	}
}
