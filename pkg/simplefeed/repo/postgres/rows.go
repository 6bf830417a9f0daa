package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-feed/pkg/simplefeed"
)

// postRow mirrors the posts table.
type postRow struct {
	id        uuid.UUID
	text      string
	createdAt time.Time
	editedAt  time.Time
	isEdited  bool
	likeCount int
	state     string
	version   int
}

func (row postRow) toPost(author *simplefeed.User) (*simplefeed.Post, error) {
	content, err := simplefeed.RestorePostContent(row.text, row.createdAt.UTC(), row.editedAt.UTC(), row.isEdited)
	if err != nil {
		return nil, err
	}
	return simplefeed.RestorePost(row.id, author, content, row.likeCount, simplefeed.PostState(row.state), row.version)
}
