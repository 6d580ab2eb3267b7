package redis_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/redis"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

func newTestStore(t *testing.T, cfg redis.Config) (*redis.SessionStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return redis.NewSessionStoreWithConfig(client, cfg), mr
}

func expiringRecord(d time.Duration, data session.Data) session.Record {
	rec := session.Record{Data: data, Cookie: session.StoredCookie{Path: "/", HTTPOnly: true}}
	if d != 0 {
		rec.Cookie.Expires = time.Now().Add(d).UTC().Format(time.RFC3339Nano)
	}
	return rec
}

func TestSessionStore_SetGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, mr := newTestStore(t, redis.Config{})

	rec := expiringRecord(time.Hour, session.Data{"user": "alice", "count": 3})
	require.NoError(t, store.Set(ctx, "abc", rec))

	assert.True(t, mr.Exists("session:abc"))
	ttl := mr.TTL("session:abc")
	assert.Greater(t, ttl, 59*time.Minute)
	assert.LessOrEqual(t, ttl, time.Hour)

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Data["user"])
	assert.Equal(t, float64(3), got.Data["count"])
	assert.Equal(t, rec.Cookie, got.Cookie)
}

func TestSessionStore_NoExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, mr := newTestStore(t, redis.Config{})

	require.NoError(t, store.Set(ctx, "abc", expiringRecord(0, nil)))
	assert.Zero(t, mr.TTL("session:abc"))
}

func TestSessionStore_Missing(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, redis.Config{})

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSessionStore_Expiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, mr := newTestStore(t, redis.Config{})

	require.NoError(t, store.Set(ctx, "abc", expiringRecord(time.Minute, nil)))
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "abc")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSessionStore_SetExpiredRemoves(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, mr := newTestStore(t, redis.Config{})

	require.NoError(t, store.Set(ctx, "abc", expiringRecord(time.Hour, nil)))
	require.NoError(t, store.Set(ctx, "abc", expiringRecord(-time.Minute, nil)))

	assert.False(t, mr.Exists("session:abc"))
}

func TestSessionStore_Destroy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newTestStore(t, redis.Config{})

	require.NoError(t, store.Set(ctx, "abc", expiringRecord(time.Hour, nil)))
	require.NoError(t, store.Destroy(ctx, "abc"))
	require.NoError(t, store.Destroy(ctx, "abc"))

	_, err := store.Get(ctx, "abc")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSessionStore_CorruptPayload(t *testing.T) {
	t.Parallel()

	store, mr := newTestStore(t, redis.Config{})
	require.NoError(t, mr.Set("session:abc", "{not json"))

	_, err := store.Get(context.Background(), "abc")
	assert.ErrorIs(t, err, session.ErrCorruptRecord)
}

func TestSessionStore_All(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, mr := newTestStore(t, redis.Config{KeyPrefix: "sess:", ScanBatchSize: 2})

	for i := range 5 {
		require.NoError(t, store.Set(ctx, fmt.Sprintf("id-%d", i), expiringRecord(time.Hour, session.Data{"i": i})))
	}
	require.NoError(t, mr.Set("other:key", "ignored"))

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, float64(4), all["id-4"].Data["i"])
}

func TestSessionStore_ServerDown(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, mr := newTestStore(t, redis.Config{})
	mr.Close()

	_, err := store.Get(ctx, "abc")
	require.Error(t, err)
	assert.NotErrorIs(t, err, session.ErrNotFound)
}

func TestSessionStore_WithMiddleware(t *testing.T) {
	t.Parallel()

	store, mr := newTestStore(t, redis.Config{})
	m := session.New(
		session.WithSecret("redis secret"),
		session.WithStore(store),
		session.WithCookieMaxAge(time.Hour),
	)

	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.MustFromContext(r.Context())
		if !sess.Active() {
			require.NoError(t, sess.Generate(r.Context()))
		}
		n, _ := sess.GetInt("count")
		sess.Set("count", n+1)
		fmt.Fprintf(w, "%d", n+1)
	}))

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, "1", first.Body.String())
	cookies := first.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	second := httptest.NewRecorder()
	h.ServeHTTP(second, req)
	assert.Equal(t, "2", second.Body.String())

	assert.Len(t, mr.Keys(), 1)
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	store, mr := newTestStore(t, redis.Config{})
	check := redis.Healthcheck(store.Conn())

	require.NoError(t, check(context.Background()))

	mr.Close()
	assert.ErrorIs(t, check(context.Background()), redis.ErrHealthcheckFailed)
}

func TestConnect(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		mr := miniredis.RunT(t)
		client, err := redis.Connect(context.Background(), redis.Config{
			ConnectionURL:  "redis://" + mr.Addr() + "/0",
			RetryAttempts:  1,
			ConnectTimeout: time.Second,
		})
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })
	})

	t.Run("empty url", func(t *testing.T) {
		t.Parallel()

		_, err := redis.Connect(context.Background(), redis.Config{})
		assert.ErrorIs(t, err, redis.ErrEmptyConnectionURL)
	})

	t.Run("invalid url", func(t *testing.T) {
		t.Parallel()

		_, err := redis.Connect(context.Background(), redis.Config{ConnectionURL: "http://nope"})
		assert.ErrorIs(t, err, redis.ErrFailedToParseRedisConnString)
	})

	t.Run("unreachable", func(t *testing.T) {
		t.Parallel()

		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		_, err := redis.Connect(context.Background(), redis.Config{
			ConnectionURL:  "redis://" + addr + "/0",
			RetryAttempts:  2,
			RetryInterval:  10 * time.Millisecond,
			ConnectTimeout: time.Second,
		})
		assert.ErrorIs(t, err, redis.ErrRedisNotReady)
	})
}
