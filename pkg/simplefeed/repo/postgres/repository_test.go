package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-feed/pkg/simplefeed"
)

func seedUser(t *testing.T, repo simplefeed.Repository, name string) *simplefeed.User {
	t.Helper()
	ctx := context.Background()
	u, err := simplefeed.NewUser(uuid.New(), simplefeed.UserInfo{Name: name})
	require.NoError(t, err)
	require.NoError(t, repo.CreateUser(ctx, u))
	stored, err := repo.GetUser(ctx, u.ID())
	require.NoError(t, err)
	return stored
}

func TestPostgresRepository_Users(t *testing.T) {
	RunTest(t, func(t *testing.T, db *TestDB) {
		repo := NewWithPool(db.Pool)
		ctx := context.Background()

		a := seedUser(t, repo, "alice")
		b := seedUser(t, repo, "bob")
		assert.Equal(t, 1, a.Version())

		_, err := repo.GetUser(ctx, uuid.New())
		assert.ErrorIs(t, err, simplefeed.ErrUserNotFound)

		require.NoError(t, a.Follow(b))
		require.NoError(t, repo.SaveFollow(ctx, a, b))

		a2, err := repo.GetUser(ctx, a.ID())
		require.NoError(t, err)
		b2, err := repo.GetUser(ctx, b.ID())
		require.NoError(t, err)
		assert.Equal(t, 1, a2.FollowingCount())
		assert.Equal(t, 1, b2.FollowerCount())
		assert.Equal(t, 2, a2.Version())

		// stale copies conflict; the relation insert is rolled back with them
		require.NoError(t, b.Follow(a))
		assert.ErrorIs(t, repo.SaveFollow(ctx, b, a), simplefeed.ErrConflict)

		require.NoError(t, a2.Follow(b2))
		assert.ErrorIs(t, repo.SaveFollow(ctx, a2, b2), simplefeed.ErrAlreadyFollowing)

		a3, _ := repo.GetUser(ctx, a.ID())
		b3, _ := repo.GetUser(ctx, b.ID())
		require.NoError(t, b3.Follow(a3))
		require.NoError(t, repo.SaveFollow(ctx, b3, a3))

		a4, _ := repo.GetUser(ctx, a.ID())
		b4, _ := repo.GetUser(ctx, b.ID())
		require.NoError(t, a4.Unfollow(b4))
		require.NoError(t, repo.SaveUnfollow(ctx, a4, b4))
		assert.ErrorIs(t, repo.SaveUnfollow(ctx, a4, b4), simplefeed.ErrNotFollowing)
	})
}

func TestPostgresRepository_Posts(t *testing.T) {
	RunTest(t, func(t *testing.T, db *TestDB) {
		repo := NewWithPool(db.Pool)
		ctx := context.Background()

		author := seedUser(t, repo, "author")
		reader := seedUser(t, repo, "reader")

		content, err := simplefeed.NewPostContent("persisted post body")
		require.NoError(t, err)
		p, err := simplefeed.NewPost(uuid.New(), author, content)
		require.NoError(t, err)
		require.NoError(t, repo.CreatePost(ctx, p))

		stored, err := repo.GetPost(ctx, p.ID())
		require.NoError(t, err)
		assert.Equal(t, "persisted post body", stored.Content().Text())
		assert.True(t, stored.Author().Equal(author))
		assert.Equal(t, simplefeed.PostStatePublic, stored.State())

		_, err = repo.GetPost(ctx, uuid.New())
		assert.ErrorIs(t, err, simplefeed.ErrPostNotFound)

		require.NoError(t, stored.UpdatePost(author, "edited persisted body", simplefeed.PostStatePrivate))
		require.NoError(t, repo.UpdatePost(ctx, stored))
		assert.ErrorIs(t, repo.UpdatePost(ctx, stored), simplefeed.ErrConflict)

		stored, err = repo.GetPost(ctx, p.ID())
		require.NoError(t, err)
		assert.Equal(t, "edited persisted body", stored.Content().Text())
		assert.Equal(t, simplefeed.PostStatePrivate, stored.State())
		assert.True(t, stored.Content().IsEdited())

		require.NoError(t, stored.Like(reader))
		require.NoError(t, repo.SaveLike(ctx, stored, reader.ID()))

		stored, err = repo.GetPost(ctx, p.ID())
		require.NoError(t, err)
		assert.Equal(t, 1, stored.LikeCount())
		require.NoError(t, stored.Like(reader))
		assert.ErrorIs(t, repo.SaveLike(ctx, stored, reader.ID()), simplefeed.ErrAlreadyLiked)

		stored, err = repo.GetPost(ctx, p.ID())
		require.NoError(t, err)
		stored.Unlike(reader)
		require.NoError(t, repo.SaveUnlike(ctx, stored, reader.ID()))
		assert.ErrorIs(t, repo.SaveUnlike(ctx, stored, reader.ID()), simplefeed.ErrNotLiked)
	})
}
