package postgres

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-feed/pkg/simplefeed"
)

func TestPostgresRepository_ReciprocalFollowsConcurrently(t *testing.T) {
	RunTest(t, func(t *testing.T, db *TestDB) {
		svc, err := simplefeed.New(simplefeed.WithRepository(NewWithPool(db.Pool)))
		require.NoError(t, err)
		ctx := context.Background()

		for i := 0; i < 10; i++ {
			a, err := svc.CreateUser(ctx, simplefeed.CreateUserRequest{Name: "alice"})
			require.NoError(t, err)
			b, err := svc.CreateUser(ctx, simplefeed.CreateUserRequest{Name: "bob"})
			require.NoError(t, err)

			var wg sync.WaitGroup
			errs := make([]error, 2)
			for j, req := range []simplefeed.FollowRequest{
				{UserID: a.ID(), TargetID: b.ID()},
				{UserID: b.ID(), TargetID: a.ID()},
			} {
				j, req := j, req
				wg.Add(1)
				go func() {
					defer wg.Done()
					errs[j] = svc.FollowUser(ctx, req)
				}()
			}
			wg.Wait()
			require.NoError(t, errs[0])
			require.NoError(t, errs[1])

			for _, id := range []uuid.UUID{a.ID(), b.ID()} {
				u, err := svc.GetUser(ctx, id)
				require.NoError(t, err)
				assert.Equal(t, 1, u.FollowerCount())
				assert.Equal(t, 1, u.FollowingCount())
			}
		}
	})
}

func TestEnsureSchemaIn_FreshSchema(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping database test in short mode")
	}
	db := NewTestDB(t)
	defer db.Pool.Close()
	ctx := context.Background()

	schema := "simplefeed_fresh_" + uuid.NewString()[:8]
	t.Cleanup(func() {
		_, _ = db.Pool.Exec(context.Background(), "DROP SCHEMA IF EXISTS "+pgx.Identifier{schema}.Sanitize()+" CASCADE")
	})

	cfg := db.Pool.Config()
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, "SET search_path TO "+pgx.Identifier{schema}.Sanitize())
		return err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	defer pool.Close()

	require.NoError(t, EnsureSchemaIn(ctx, pool, schema))
	// a second run is a no-op
	require.NoError(t, EnsureSchemaIn(ctx, pool, schema))

	var table *string
	err = pool.QueryRow(ctx, "SELECT to_regclass($1)::text", schema+".users").Scan(&table)
	require.NoError(t, err)
	require.NotNil(t, table)

	repo := NewWithPool(pool)
	seedUser(t, repo, "alice")
}
