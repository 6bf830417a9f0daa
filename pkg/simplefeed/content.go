package simplefeed

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Content length limits, counted in runes.
const (
	PostContentMinLength    = 5
	PostContentMaxLength    = 500
	CommentContentMaxLength = 100
)

// now is the clock used to stamp content timelines.
var now = func() time.Time {
	return time.Now().UTC()
}

// Content is an editable text payload with an edit timeline.
// Each variant supplies its own Validate rule; the rule runs before every
// assignment of the text, including the first one.
type Content interface {
	Text() string
	CreatedAt() time.Time
	LastEditedAt() time.Time
	IsEdited() bool
	Validate(text string) error
	Update(text string) error
}

// DatetimeInfo tracks when content was created and last edited.
type DatetimeInfo struct {
	createdAt    time.Time
	lastEditedAt time.Time
	edited       bool
}

func newDatetimeInfo() DatetimeInfo {
	t := now()
	return DatetimeInfo{createdAt: t, lastEditedAt: t}
}

// markEdited moves lastEditedAt strictly forward, by at least the microsecond
// precision stores keep, even when the clock has not ticked.
func (d *DatetimeInfo) markEdited() {
	t := now()
	if !t.After(d.lastEditedAt) {
		t = d.lastEditedAt.Add(time.Microsecond)
	}
	d.lastEditedAt = t
	d.edited = true
}

// CreatedAt returns the creation time.
func (d DatetimeInfo) CreatedAt() time.Time { return d.createdAt }

// LastEditedAt returns the time of the last successful edit, or the creation
// time if the content was never edited.
func (d DatetimeInfo) LastEditedAt() time.Time { return d.lastEditedAt }

// IsEdited reports whether the content was edited after creation.
func (d DatetimeInfo) IsEdited() bool { return d.edited }

// baseContent carries the state and edit lifecycle shared by all variants.
type baseContent struct {
	DatetimeInfo
	text     string
	validate func(string) error
}

func newBaseContent(text string, validate func(string) error) (baseContent, error) {
	if err := validate(text); err != nil {
		return baseContent{}, err
	}
	return baseContent{
		DatetimeInfo: newDatetimeInfo(),
		text:         text,
		validate:     validate,
	}, nil
}

func restoreBaseContent(text string, createdAt, lastEditedAt time.Time, edited bool, validate func(string) error) (baseContent, error) {
	if err := validate(text); err != nil {
		return baseContent{}, err
	}
	if lastEditedAt.Before(createdAt) {
		return baseContent{}, fmt.Errorf("%w: last edit %s precedes creation %s", ErrInvalidArgument, lastEditedAt, createdAt)
	}
	return baseContent{
		DatetimeInfo: DatetimeInfo{createdAt: createdAt, lastEditedAt: lastEditedAt, edited: edited},
		text:         text,
		validate:     validate,
	}, nil
}

// Text returns the current content text.
func (c *baseContent) Text() string {
	return c.text
}

// Update replaces the text after validating it and stamps the edit time.
// On a validation error the content is left unchanged.
func (c *baseContent) Update(text string) error {
	if err := c.validate(text); err != nil {
		return err
	}
	c.text = text
	c.markEdited()
	return nil
}

// PostContent is the body of a post.
type PostContent struct {
	baseContent
}

// NewPostContent validates text and creates post content stamped with the current time.
func NewPostContent(text string) (*PostContent, error) {
	base, err := newBaseContent(text, validatePostText)
	if err != nil {
		return nil, err
	}
	return &PostContent{baseContent: base}, nil
}

// RestorePostContent rebuilds post content from persisted values.
func RestorePostContent(text string, createdAt, lastEditedAt time.Time, edited bool) (*PostContent, error) {
	base, err := restoreBaseContent(text, createdAt, lastEditedAt, edited, validatePostText)
	if err != nil {
		return nil, err
	}
	return &PostContent{baseContent: base}, nil
}

// Validate applies the post text rule.
func (c *PostContent) Validate(text string) error {
	return validatePostText(text)
}

// CommentContent is the body of a comment.
type CommentContent struct {
	baseContent
}

// NewCommentContent validates text and creates comment content stamped with the current time.
func NewCommentContent(text string) (*CommentContent, error) {
	base, err := newBaseContent(text, validateCommentText)
	if err != nil {
		return nil, err
	}
	return &CommentContent{baseContent: base}, nil
}

// Validate applies the comment text rule.
func (c *CommentContent) Validate(text string) error {
	return validateCommentText(text)
}

func validatePostText(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fmt.Errorf("%w: post text cannot be blank", ErrInvalidContent)
	}
	if n := utf8.RuneCountInString(trimmed); n < PostContentMinLength {
		return fmt.Errorf("%w: post text must be at least %d characters (got %d)", ErrInvalidContent, PostContentMinLength, n)
	}
	if n := utf8.RuneCountInString(text); n > PostContentMaxLength {
		return fmt.Errorf("%w: post text must be at most %d characters (got %d)", ErrInvalidContent, PostContentMaxLength, n)
	}
	return nil
}

func validateCommentText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: comment text cannot be blank", ErrInvalidContent)
	}
	if n := utf8.RuneCountInString(text); n > CommentContentMaxLength {
		return fmt.Errorf("%w: comment text must be at most %d characters (got %d)", ErrInvalidContent, CommentContentMaxLength, n)
	}
	return nil
}

var (
	_ Content = (*PostContent)(nil)
	_ Content = (*CommentContent)(nil)
)
