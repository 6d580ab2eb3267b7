package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/session"
	"github.com/dmitrymomot/sessionkit/pkg/sqlite"
)

func newTestStore(t *testing.T) *sqlite.SessionStore {
	t.Helper()

	ctx := context.Background()
	db, err := sqlite.Open(ctx, sqlite.Config{Path: ":memory:", BusyTimeout: time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store, err := sqlite.NewSessionStore(ctx, db)
	require.NoError(t, err)
	return store
}

func recordExpiring(d time.Duration, data session.Data) session.Record {
	rec := session.Record{Data: data, Cookie: session.StoredCookie{Path: "/"}}
	if d != 0 {
		rec.Cookie.Expires = time.Now().Add(d).UTC().Format(time.RFC3339Nano)
	}
	return rec
}

func TestSessionStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)
		rec := recordExpiring(time.Hour, session.Data{"user": "alice", "n": 1})
		require.NoError(t, store.Set(ctx, "abc", rec))

		got, err := store.Get(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Data["user"])
		assert.Equal(t, float64(1), got.Data["n"])
		assert.Equal(t, rec.Cookie, got.Cookie)
	})

	t.Run("upsert", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)
		require.NoError(t, store.Set(ctx, "abc", recordExpiring(time.Hour, session.Data{"v": "1"})))
		require.NoError(t, store.Set(ctx, "abc", recordExpiring(0, session.Data{"v": "2"})))

		got, err := store.Get(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, "2", got.Data["v"])
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)
		_, err := store.Get(ctx, "nope")
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)
		require.NoError(t, store.Set(ctx, "old", recordExpiring(-time.Minute, nil)))
		require.NoError(t, store.Set(ctx, "live", recordExpiring(time.Hour, nil)))
		require.NoError(t, store.Set(ctx, "forever", recordExpiring(0, nil)))

		_, err := store.Get(ctx, "old")
		assert.ErrorIs(t, err, session.ErrNotFound)

		all, err := store.All(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
		assert.NotContains(t, all, "old")

		n, err := store.DeleteExpired(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("destroy", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)
		require.NoError(t, store.Set(ctx, "abc", recordExpiring(0, nil)))
		require.NoError(t, store.Destroy(ctx, "abc"))
		require.NoError(t, store.Destroy(ctx, "abc"))

		_, err := store.Get(ctx, "abc")
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("concurrent writers", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)
		var wg sync.WaitGroup
		for i := range 20 {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				assert.NoError(t, store.Set(ctx, fmt.Sprintf("s-%d", i), recordExpiring(time.Hour, session.Data{"i": i})))
			}(i)
		}
		wg.Wait()

		all, err := store.All(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 20)
	})
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("file database survives reopen", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "sessions.db")
		cfg := sqlite.Config{Path: path, JournalMode: "WAL", BusyTimeout: time.Second}

		db, err := sqlite.Open(ctx, cfg)
		require.NoError(t, err)
		store, err := sqlite.NewSessionStore(ctx, db)
		require.NoError(t, err)
		require.NoError(t, store.Set(ctx, "abc", recordExpiring(time.Hour, session.Data{"k": "v"})))
		require.NoError(t, db.Close())

		db, err = sqlite.Open(ctx, cfg)
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		require.NoError(t, sqlite.Healthcheck(db)(ctx))

		store, err = sqlite.NewSessionStore(ctx, db)
		require.NoError(t, err)
		got, err := store.Get(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, "v", got.Data["k"])
	})

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()

		_, err := sqlite.Open(context.Background(), sqlite.Config{})
		assert.ErrorIs(t, err, sqlite.ErrEmptyPath)
	})
}
