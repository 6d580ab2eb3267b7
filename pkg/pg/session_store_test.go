package pg_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/pg"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

// setupPool connects to PG_CONN_URL and migrates the schema.
// Tests are skipped when no database is configured.
func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	connURL := os.Getenv("PG_CONN_URL")
	if connURL == "" {
		t.Skip("PG_CONN_URL not set")
	}

	ctx := context.Background()
	cfg := pg.Config{
		ConnectionString: connURL,
		MaxOpenConns:     4,
		RetryAttempts:    1,
		MigrationsTable:  "schema_migrations",
	}

	pool, err := pg.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, pg.Migrate(ctx, pool, cfg, nil))
	return pool
}

func newID() string {
	return "test-" + uuid.NewString()
}

func TestSessionStore(t *testing.T) {
	pool := setupPool(t)
	store := pg.NewSessionStore(pool)
	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		id := newID()
		t.Cleanup(func() { _ = store.Destroy(ctx, id) })

		rec := session.Record{
			Data:   session.Data{"user": "alice"},
			Cookie: session.StoredCookie{Path: "/", Expires: time.Now().Add(time.Hour).UTC().Format(time.RFC3339Nano)},
		}
		require.NoError(t, store.Set(ctx, id, rec))

		got, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Data["user"])
		assert.Equal(t, rec.Cookie.Expires, got.Cookie.Expires)
	})

	t.Run("upsert", func(t *testing.T) {
		id := newID()
		t.Cleanup(func() { _ = store.Destroy(ctx, id) })

		require.NoError(t, store.Set(ctx, id, session.Record{Data: session.Data{"v": "1"}}))
		require.NoError(t, store.Set(ctx, id, session.Record{Data: session.Data{"v": "2"}}))

		got, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "2", got.Data["v"])
	})

	t.Run("missing", func(t *testing.T) {
		_, err := store.Get(ctx, newID())
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("expired rows are hidden and purged", func(t *testing.T) {
		id := newID()
		t.Cleanup(func() { _ = store.Destroy(ctx, id) })

		rec := session.Record{Cookie: session.StoredCookie{Expires: time.Now().Add(-time.Minute).UTC().Format(time.RFC3339Nano)}}
		require.NoError(t, store.Set(ctx, id, rec))

		_, err := store.Get(ctx, id)
		assert.ErrorIs(t, err, session.ErrNotFound)

		all, err := store.All(ctx)
		require.NoError(t, err)
		assert.NotContains(t, all, id)

		n, err := store.DeleteExpired(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, int64(1))
	})

	t.Run("destroy", func(t *testing.T) {
		id := newID()
		require.NoError(t, store.Set(ctx, id, session.Record{}))
		require.NoError(t, store.Destroy(ctx, id))
		require.NoError(t, store.Destroy(ctx, id))

		_, err := store.Get(ctx, id)
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("healthcheck", func(t *testing.T) {
		assert.NoError(t, pg.Healthcheck(pool)(ctx))
	})
}

func TestConnect_Errors(t *testing.T) {
	t.Parallel()

	_, err := pg.Connect(context.Background(), pg.Config{})
	assert.ErrorIs(t, err, pg.ErrEmptyConnectionString)

	_, err = pg.Connect(context.Background(), pg.Config{ConnectionString: "postgres://%zz"})
	assert.ErrorIs(t, err, pg.ErrFailedToParseDBConfig)
}
