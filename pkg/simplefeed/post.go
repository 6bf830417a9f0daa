package simplefeed

import (
	"fmt"

	"github.com/google/uuid"
)

// PostState is the publication state of a post.
type PostState string

// Post state constants (typed).
const (
	PostStatePublic       PostState = "public"
	PostStateOnlyFollower PostState = "only_follower"
	PostStatePrivate      PostState = "private"
)

// IsValid reports whether s is a known publication state.
func (s PostState) IsValid() bool {
	switch s {
	case PostStatePublic, PostStateOnlyFollower, PostStatePrivate:
		return true
	default:
		return false
	}
}

// ParsePostState converts a string to a PostState, rejecting unknown values.
func ParsePostState(s string) (PostState, error) {
	state := PostState(s)
	if !state.IsValid() {
		return "", fmt.Errorf("%w: unknown post state %q", ErrInvalidArgument, s)
	}
	return state, nil
}

// Post is an authored, editable, likeable unit of content.
//
// The author is a reference used for authorization; the post does not own it.
// Content and the like counter are owned by the post.
type Post struct {
	id        uuid.UUID
	author    *User
	content   *PostContent
	likeCount Counter
	state     PostState
	version   int
}

// NewPost creates a public post with no likes. id may be uuid.Nil until the
// post is persisted.
func NewPost(id uuid.UUID, author *User, content *PostContent) (*Post, error) {
	if author == nil {
		return nil, fmt.Errorf("%w: post author is required", ErrInvalidArgument)
	}
	if content == nil {
		return nil, fmt.Errorf("%w: post content is required", ErrInvalidArgument)
	}
	return &Post{
		id:      id,
		author:  author,
		content: content,
		state:   PostStatePublic,
	}, nil
}

// RestorePost rebuilds a post from persisted values.
func RestorePost(id uuid.UUID, author *User, content *PostContent, likeCount int, state PostState, version int) (*Post, error) {
	p, err := NewPost(id, author, content)
	if err != nil {
		return nil, err
	}
	if p.likeCount, err = NewCounterFrom(likeCount); err != nil {
		return nil, err
	}
	if !state.IsValid() {
		return nil, fmt.Errorf("%w: unknown post state %q", ErrInvalidArgument, state)
	}
	p.state = state
	p.version = version
	return p, nil
}

func (p *Post) ID() uuid.UUID         { return p.id }
func (p *Post) Author() *User         { return p.author }
func (p *Post) Content() *PostContent { return p.content }
func (p *Post) LikeCount() int        { return p.likeCount.Count() }
func (p *Post) State() PostState      { return p.state }
func (p *Post) Version() int          { return p.version }

// IsAuthor reports whether user wrote the post.
func (p *Post) IsAuthor(user *User) bool {
	return p.author.Equal(user)
}

// Like adds a like from user. Authors cannot like their own posts.
// Repeated likes from the same user are not detected here.
func (p *Post) Like(user *User) error {
	if user == nil {
		return fmt.Errorf("%w: liking user is required", ErrInvalidArgument)
	}
	if p.IsAuthor(user) {
		return fmt.Errorf("%w: author cannot like own post", ErrInvalidArgument)
	}
	p.likeCount.Increase()
	return nil
}

// Unlike removes a like. The count stops at zero.
func (p *Post) Unlike(user *User) {
	p.likeCount.Decrease()
}

// UpdatePost replaces the text and state of the post. Only the author may
// update it. All inputs are validated before anything is changed, so a failure
// leaves the post untouched.
func (p *Post) UpdatePost(user *User, text string, state PostState) error {
	if !p.IsAuthor(user) {
		return ErrNotAuthor
	}
	if !state.IsValid() {
		return fmt.Errorf("%w: unknown post state %q", ErrInvalidArgument, state)
	}
	if err := p.content.Validate(text); err != nil {
		return err
	}

	if err := p.content.Update(text); err != nil {
		return err
	}
	p.state = state
	return nil
}
