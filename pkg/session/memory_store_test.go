package session_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

func recordExpiring(at time.Time, data session.Data) session.Record {
	rec := session.Record{Data: data}
	if !at.IsZero() {
		rec.Cookie.Expires = at.UTC().Format(time.RFC3339Nano)
	}
	return rec
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)
		defer store.Close()

		rec := recordExpiring(time.Now().Add(time.Hour), session.Data{"user": "alice", "n": 2})
		require.NoError(t, store.Set(ctx, "abc", rec))

		got, err := store.Get(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Data["user"])
		assert.Equal(t, float64(2), got.Data["n"])
		assert.Equal(t, rec.Cookie.Expires, got.Cookie.Expires)
	})

	t.Run("missing session", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)
		defer store.Close()

		_, err := store.Get(ctx, "nope")
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("returned records are isolated", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)
		defer store.Close()

		data := session.Data{"user": "alice"}
		require.NoError(t, store.Set(ctx, "abc", session.Record{Data: data}))
		data["user"] = "mallory"

		got, err := store.Get(ctx, "abc")
		require.NoError(t, err)
		got.Data["user"] = "eve"

		again, err := store.Get(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, "alice", again.Data["user"])
	})

	t.Run("overwrite", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)
		defer store.Close()

		require.NoError(t, store.Set(ctx, "abc", session.Record{Data: session.Data{"v": "1"}}))
		require.NoError(t, store.Set(ctx, "abc", session.Record{Data: session.Data{"v": "2"}}))

		got, err := store.Get(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, "2", got.Data["v"])
		assert.Equal(t, 1, store.Len())
	})

	t.Run("destroy", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)
		defer store.Close()

		require.NoError(t, store.Set(ctx, "abc", session.Record{}))
		require.NoError(t, store.Destroy(ctx, "abc"))
		require.NoError(t, store.Destroy(ctx, "abc"), "destroying twice is not an error")

		_, err := store.Get(ctx, "abc")
		assert.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("expired sessions are not returned", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)
		defer store.Close()

		require.NoError(t, store.Set(ctx, "old", recordExpiring(time.Now().Add(-time.Minute), nil)))
		require.NoError(t, store.Set(ctx, "new", recordExpiring(time.Now().Add(time.Hour), nil)))
		require.NoError(t, store.Set(ctx, "forever", recordExpiring(time.Time{}, nil)))

		all, err := store.All(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
		assert.Contains(t, all, "new")
		assert.Contains(t, all, "forever")

		_, err = store.Get(ctx, "old")
		assert.ErrorIs(t, err, session.ErrNotFound)
		assert.Equal(t, 2, store.Len(), "expired entry is dropped on read")
	})

	t.Run("delete expired", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(0)
		defer store.Close()

		for i := range 3 {
			require.NoError(t, store.Set(ctx, fmt.Sprintf("old-%d", i), recordExpiring(time.Now().Add(-time.Second), nil)))
		}
		require.NoError(t, store.Set(ctx, "live", recordExpiring(time.Now().Add(time.Hour), nil)))

		require.NoError(t, store.DeleteExpired(ctx))
		assert.Equal(t, 1, store.Len())
	})

	t.Run("cleanup loop purges expired sessions", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(10 * time.Millisecond)
		defer store.Close()

		require.NoError(t, store.Set(ctx, "old", recordExpiring(time.Now().Add(-time.Second), nil)))

		assert.Eventually(t, func() bool {
			return store.Len() == 0
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemoryStore(time.Minute)
		require.NoError(t, store.Close())
		require.NoError(t, store.Close())
	})
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := session.NewMemoryStore(0)
	defer store.Close()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s-%d", i)
			assert.NoError(t, store.Set(ctx, id, session.Record{Data: session.Data{"i": i}}))
			_, err := store.Get(ctx, id)
			assert.NoError(t, err)
			if i%2 == 0 {
				assert.NoError(t, store.Destroy(ctx, id))
			}
		}(i)
	}
	wg.Wait()

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 25)
}
