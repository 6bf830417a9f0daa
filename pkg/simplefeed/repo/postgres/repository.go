package postgres

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-feed/pkg/simplefeed"
)

// Schema is the DDL for the tables used by Repository.
//
//go:embed schema.sql
var Schema string

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type txStarter interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository implements simplefeed.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) simplefeed.Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) simplefeed.Repository {
	return &Repository{db: pool}
}

// EnsureSchemaIn creates the named Postgres schema and then the tables. The
// tables land in the first schema of the session's search_path, so db should
// point its search_path at schema. An empty schema skips CREATE SCHEMA.
func EnsureSchemaIn(ctx context.Context, db DBTX, schema string) error {
	ddl := Schema
	if schema != "" {
		// One statement batch, so both parts run on the same connection.
		ddl = "CREATE SCHEMA IF NOT EXISTS " + pgx.Identifier{schema}.Sanitize() + ";\n" + Schema
	}
	if _, err := db.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("duplicate entry in %s: %s", operation, pgErr.ConstraintName)
		case "23503": // foreign_key_violation
			if pgErr.TableName == "post_likes" && pgErr.ConstraintName == "post_likes_post_id_fkey" {
				return simplefeed.ErrPostNotFound
			}
			return simplefeed.ErrUserNotFound
		case "23514": // check_violation
			return fmt.Errorf("%w: %s violates %s", simplefeed.ErrInvalidArgument, operation, pgErr.ConstraintName)
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return fmt.Errorf("%w: %s aborted by %s", simplefeed.ErrConflict, operation, pgErr.Code)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

// inTx runs fn in a transaction when the underlying handle supports one.
func (r *Repository) inTx(ctx context.Context, fn func(db DBTX) error) error {
	starter, ok := r.db.(txStarter)
	if !ok {
		return fn(r.db)
	}
	return pgx.BeginFunc(ctx, starter, func(tx pgx.Tx) error {
		return fn(tx)
	})
}

// User operations

func (r *Repository) CreateUser(ctx context.Context, user *simplefeed.User) error {
	query := `
		INSERT INTO users (id, name, profile_image_url, follower_count, following_count, version)
		VALUES ($1, $2, $3, $4, $5, 1)`

	info := user.Info()
	_, err := r.db.Exec(ctx, query,
		user.ID(), info.Name, info.ProfileImageURL, user.FollowerCount(), user.FollowingCount())
	if err != nil {
		return r.handlePostgresError("create user", err)
	}
	return nil
}

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*simplefeed.User, error) {
	query := `
		SELECT id, name, profile_image_url, follower_count, following_count, version
		FROM users WHERE id = $1`

	var (
		userID                        uuid.UUID
		info                          simplefeed.UserInfo
		followers, following, version int
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&userID, &info.Name, &info.ProfileImageURL, &followers, &following, &version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simplefeed.ErrUserNotFound
		}
		return nil, r.handlePostgresError("get user", err)
	}

	return simplefeed.RestoreUser(userID, info, followers, following, version)
}

func (r *Repository) SaveFollow(ctx context.Context, actor, target *simplefeed.User) error {
	return r.inTx(ctx, func(db DBTX) error {
		tag, err := db.Exec(ctx, `
			INSERT INTO follows (follower_id, followee_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, actor.ID(), target.ID())
		if err != nil {
			return r.handlePostgresError("save follow", err)
		}
		if tag.RowsAffected() == 0 {
			return simplefeed.ErrAlreadyFollowing
		}
		return r.updateUsers(ctx, db, actor, target)
	})
}

func (r *Repository) SaveUnfollow(ctx context.Context, actor, target *simplefeed.User) error {
	return r.inTx(ctx, func(db DBTX) error {
		tag, err := db.Exec(ctx, `
			DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`, actor.ID(), target.ID())
		if err != nil {
			return r.handlePostgresError("save unfollow", err)
		}
		if tag.RowsAffected() == 0 {
			return simplefeed.ErrNotFollowing
		}
		return r.updateUsers(ctx, db, actor, target)
	})
}

func (r *Repository) updateUsers(ctx context.Context, db DBTX, users ...*simplefeed.User) error {
	query := `
		UPDATE users SET
			name = $2, profile_image_url = $3, follower_count = $4, following_count = $5,
			version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $6`

	// Rows are locked in ID order so reciprocal follows cannot deadlock.
	ordered := slices.Clone(users)
	slices.SortFunc(ordered, func(a, b *simplefeed.User) int {
		ida, idb := a.ID(), b.ID()
		return bytes.Compare(ida[:], idb[:])
	})

	for _, u := range ordered {
		info := u.Info()
		tag, err := db.Exec(ctx, query,
			u.ID(), info.Name, info.ProfileImageURL, u.FollowerCount(), u.FollowingCount(), u.Version())
		if err != nil {
			return r.handlePostgresError("update user", err)
		}
		if tag.RowsAffected() == 0 {
			return r.missingOrConflict(ctx, db, "users", u.ID(), simplefeed.ErrUserNotFound)
		}
	}
	return nil
}

// Post operations

func (r *Repository) CreatePost(ctx context.Context, post *simplefeed.Post) error {
	query := `
		INSERT INTO posts (
			id, author_id, content_text, content_created_at, content_edited_at,
			is_edited, like_count, state, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1)`

	c := post.Content()
	_, err := r.db.Exec(ctx, query,
		post.ID(), post.Author().ID(), c.Text(), c.CreatedAt(), c.LastEditedAt(),
		c.IsEdited(), post.LikeCount(), string(post.State()))
	if err != nil {
		return r.handlePostgresError("create post", err)
	}
	return nil
}

func (r *Repository) GetPost(ctx context.Context, id uuid.UUID) (*simplefeed.Post, error) {
	query := `
		SELECT p.id, p.content_text, p.content_created_at, p.content_edited_at, p.is_edited,
		       p.like_count, p.state, p.version,
		       u.id, u.name, u.profile_image_url, u.follower_count, u.following_count, u.version
		FROM posts p JOIN users u ON u.id = p.author_id
		WHERE p.id = $1`

	var (
		row        postRow
		authorID   uuid.UUID
		authorInfo simplefeed.UserInfo
		followers  int
		following  int
		authorVer  int
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&row.id, &row.text, &row.createdAt, &row.editedAt, &row.isEdited,
		&row.likeCount, &row.state, &row.version,
		&authorID, &authorInfo.Name, &authorInfo.ProfileImageURL, &followers, &following, &authorVer)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simplefeed.ErrPostNotFound
		}
		return nil, r.handlePostgresError("get post", err)
	}

	author, err := simplefeed.RestoreUser(authorID, authorInfo, followers, following, authorVer)
	if err != nil {
		return nil, err
	}
	return row.toPost(author)
}

func (r *Repository) UpdatePost(ctx context.Context, post *simplefeed.Post) error {
	return r.updatePost(ctx, r.db, post)
}

func (r *Repository) SaveLike(ctx context.Context, post *simplefeed.Post, userID uuid.UUID) error {
	return r.inTx(ctx, func(db DBTX) error {
		tag, err := db.Exec(ctx, `
			INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, post.ID(), userID)
		if err != nil {
			return r.handlePostgresError("save like", err)
		}
		if tag.RowsAffected() == 0 {
			return simplefeed.ErrAlreadyLiked
		}
		return r.updatePost(ctx, db, post)
	})
}

func (r *Repository) SaveUnlike(ctx context.Context, post *simplefeed.Post, userID uuid.UUID) error {
	return r.inTx(ctx, func(db DBTX) error {
		tag, err := db.Exec(ctx, `
			DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, post.ID(), userID)
		if err != nil {
			return r.handlePostgresError("save unlike", err)
		}
		if tag.RowsAffected() == 0 {
			return simplefeed.ErrNotLiked
		}
		return r.updatePost(ctx, db, post)
	})
}

func (r *Repository) updatePost(ctx context.Context, db DBTX, post *simplefeed.Post) error {
	query := `
		UPDATE posts SET
			content_text = $2, content_edited_at = $3, is_edited = $4,
			like_count = $5, state = $6, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $7`

	c := post.Content()
	tag, err := db.Exec(ctx, query,
		post.ID(), c.Text(), c.LastEditedAt(), c.IsEdited(),
		post.LikeCount(), string(post.State()), post.Version())
	if err != nil {
		return r.handlePostgresError("update post", err)
	}
	if tag.RowsAffected() == 0 {
		return r.missingOrConflict(ctx, db, "posts", post.ID(), simplefeed.ErrPostNotFound)
	}
	return nil
}

// missingOrConflict explains a version-checked update that matched no rows.
func (r *Repository) missingOrConflict(ctx context.Context, db DBTX, table string, id uuid.UUID, notFound error) error {
	var exists bool
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)", table)
	if err := db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return r.handlePostgresError("check "+table, err)
	}
	if !exists {
		return notFound
	}
	return simplefeed.ErrConflict
}
