package simplefeed

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// UserInfo is the profile value object owned by a User.
type UserInfo struct {
	Name            string `json:"name"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
}

// NewUserInfo validates and creates profile info. Name is required.
func NewUserInfo(name, profileImageURL string) (UserInfo, error) {
	if strings.TrimSpace(name) == "" {
		return UserInfo{}, fmt.Errorf("%w: user name cannot be blank", ErrInvalidArgument)
	}
	return UserInfo{Name: name, ProfileImageURL: profileImageURL}, nil
}

// User is an identity with follower and following counters.
// Two users are the same user iff their IDs match.
type User struct {
	id        uuid.UUID
	info      UserInfo
	followers Counter
	following Counter
	version   int
}

// NewUser creates a user with zeroed relationship counters.
func NewUser(id uuid.UUID, info UserInfo) (*User, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidArgument)
	}
	return &User{id: id, info: info}, nil
}

// RestoreUser rebuilds a user from persisted values.
func RestoreUser(id uuid.UUID, info UserInfo, followerCount, followingCount, version int) (*User, error) {
	u, err := NewUser(id, info)
	if err != nil {
		return nil, err
	}
	if u.followers, err = NewCounterFrom(followerCount); err != nil {
		return nil, err
	}
	if u.following, err = NewCounterFrom(followingCount); err != nil {
		return nil, err
	}
	u.version = version
	return u, nil
}

func (u *User) ID() uuid.UUID       { return u.id }
func (u *User) Info() UserInfo      { return u.info }
func (u *User) FollowerCount() int  { return u.followers.Count() }
func (u *User) FollowingCount() int { return u.following.Count() }

// Version is the optimistic-lock version assigned by the repository.
func (u *User) Version() int { return u.version }

// Equal reports whether u and other have the same identity. Profile info and
// counters are ignored.
func (u *User) Equal(other *User) bool {
	if u == nil || other == nil {
		return false
	}
	return u.id == other.id
}

// Follow records that u follows target: u's following count and target's
// follower count both increase.
func (u *User) Follow(target *User) error {
	if err := u.checkRelationTarget(target); err != nil {
		return err
	}
	u.following.Increase()
	target.followers.Increase()
	return nil
}

// Unfollow reverses Follow. Counters stop at zero.
func (u *User) Unfollow(target *User) error {
	if err := u.checkRelationTarget(target); err != nil {
		return err
	}
	u.following.Decrease()
	target.followers.Decrease()
	return nil
}

func (u *User) checkRelationTarget(target *User) error {
	if target == nil {
		return fmt.Errorf("%w: target user is required", ErrInvalidArgument)
	}
	if u.Equal(target) {
		return fmt.Errorf("%w: user cannot follow or unfollow itself", ErrInvalidArgument)
	}
	return nil
}
