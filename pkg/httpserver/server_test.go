package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/httpserver"
)

func startServer(t *testing.T, handler http.Handler, opts ...httpserver.Option) (*httpserver.Server, context.CancelFunc, <-chan error) {
	t.Helper()

	srv := httpserver.New(append([]httpserver.Option{httpserver.WithAddr("127.0.0.1:0")}, opts...)...)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, handler) }()

	select {
	case <-srv.Ready():
	case err := <-done:
		cancel()
		t.Fatalf("server exited before ready: %v", err)
	case <-time.After(2 * time.Second):
		cancel()
		t.Fatal("server did not become ready")
	}

	return srv, cancel, done
}

func TestServerRun(t *testing.T) {
	t.Parallel()

	t.Run("serves and stops on cancel", func(t *testing.T) {
		t.Parallel()

		var hookRan atomic.Bool
		srv, cancel, done := startServer(t,
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, "pong")
			}),
			httpserver.WithShutdownHook(func(context.Context) error {
				hookRan.Store(true)
				return nil
			}),
		)

		resp, err := http.Get("http://" + srv.Addr() + "/")
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		assert.Equal(t, "pong", string(body))

		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("server did not stop")
		}
		assert.True(t, hookRan.Load())
	})

	t.Run("start hook receives logger", func(t *testing.T) {
		t.Parallel()

		var got atomic.Pointer[slog.Logger]
		log := slog.New(slog.DiscardHandler)
		_, cancel, done := startServer(t, nil,
			httpserver.WithLogger(log),
			httpserver.WithStartHook(func(l *slog.Logger) { got.Store(l) }),
		)
		cancel()
		require.NoError(t, <-done)
		assert.Same(t, log, got.Load())
	})

	t.Run("shutdown hook errors are reported", func(t *testing.T) {
		t.Parallel()

		hookErr := errors.New("close store")
		_, cancel, done := startServer(t, nil,
			httpserver.WithShutdownHook(func(context.Context) error { return hookErr }),
		)
		cancel()

		err := <-done
		assert.ErrorIs(t, err, httpserver.ErrShutdown)
		assert.ErrorIs(t, err, hookErr)
	})

	t.Run("run twice", func(t *testing.T) {
		t.Parallel()

		srv, cancel, done := startServer(t, nil)
		defer func() {
			cancel()
			<-done
		}()

		err := srv.Run(context.Background(), nil)
		assert.ErrorIs(t, err, httpserver.ErrStart)
		assert.ErrorIs(t, err, httpserver.ErrAlreadyRunning)
	})

	t.Run("listen failure", func(t *testing.T) {
		t.Parallel()

		srv := httpserver.New(httpserver.WithAddr("256.0.0.1:99999"))
		err := srv.Run(context.Background(), nil)
		assert.ErrorIs(t, err, httpserver.ErrStart)
	})
}

func TestShutdownWithoutRun(t *testing.T) {
	t.Parallel()

	calls := 0
	srv := httpserver.New(httpserver.WithShutdownHook(func(context.Context) error {
		calls++
		return nil
	}))

	require.NoError(t, srv.Shutdown(context.Background()))
	require.NoError(t, srv.Shutdown(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestOptionsPanic(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { httpserver.WithAddr("") })
	assert.Panics(t, func() { httpserver.WithReadTimeout(0) })
	assert.Panics(t, func() { httpserver.WithReadHeaderTimeout(-time.Second) })
	assert.Panics(t, func() { httpserver.WithWriteTimeout(0) })
	assert.Panics(t, func() { httpserver.WithIdleTimeout(0) })
	assert.Panics(t, func() { httpserver.WithShutdownTimeout(0) })
	assert.Panics(t, func() { httpserver.WithStartHook(nil) })
	assert.Panics(t, func() { httpserver.WithShutdownHook(nil) })
	assert.NotPanics(t, func() { httpserver.WithLogger(nil) })
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	srv := httpserver.NewFromConfig(httpserver.Config{Addr: "127.0.0.1:0"})
	assert.Equal(t, "127.0.0.1:0", srv.Addr())

	srv = httpserver.NewFromConfig(httpserver.Config{}, httpserver.WithAddr(":9999"))
	assert.Equal(t, ":9999", srv.Addr())
}

func decodeReport(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthCheckHandler(t *testing.T) {
	t.Parallel()

	t.Run("liveness", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		httpserver.HealthCheckHandler(nil, 0).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, "alive", decodeReport(t, rec)["status"])
	})

	t.Run("all checks pass", func(t *testing.T) {
		t.Parallel()

		h := httpserver.HealthCheckHandler(nil, time.Second,
			httpserver.Check{Name: "store", Fn: func(context.Context) error { return nil }},
		)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeReport(t, rec)
		assert.Equal(t, "ready", body["status"])
		assert.Equal(t, map[string]any{"store": "ok"}, body["checks"])
	})

	t.Run("failing check", func(t *testing.T) {
		t.Parallel()

		h := httpserver.HealthCheckHandler(nil, time.Second,
			httpserver.Check{Name: "store", Fn: func(context.Context) error { return nil }},
			httpserver.Check{Name: "cache", Fn: func(context.Context) error { return errors.New("down") }},
		)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		body := decodeReport(t, rec)
		assert.Equal(t, "not_ready", body["status"])
		assert.Equal(t, map[string]any{"store": "ok", "cache": "fail"}, body["checks"])
	})

	t.Run("timeout is applied", func(t *testing.T) {
		t.Parallel()

		h := httpserver.HealthCheckHandler(nil, 20*time.Millisecond,
			httpserver.Check{Name: "slow", Fn: func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			}},
		)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
