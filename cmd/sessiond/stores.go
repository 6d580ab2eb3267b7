package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/config"
	"github.com/dmitrymomot/sessionkit/pkg/httpserver"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/mongo"
	"github.com/dmitrymomot/sessionkit/pkg/pg"
	"github.com/dmitrymomot/sessionkit/pkg/redis"
	"github.com/dmitrymomot/sessionkit/pkg/session"
	"github.com/dmitrymomot/sessionkit/pkg/sqlite"
)

// Supported values of SESSION_STORE.
const (
	storeMemory   = "memory"
	storeRedis    = "redis"
	storePostgres = "postgres"
	storeMongo    = "mongo"
	storeSQLite   = "sqlite"
)

var errUnknownStore = errors.New("sessiond.unknown_store")

type storeConfig struct {
	Driver        string        `env:"SESSION_STORE" envDefault:"memory"`
	PurgeInterval time.Duration `env:"SESSION_PURGE_INTERVAL" envDefault:"10m"`
}

// backend is an opened session store together with its readiness probe,
// optional expired-row purge and the function that releases its connection.
type backend struct {
	name  string
	store session.Store
	check httpserver.Check
	purge func(context.Context) (int64, error)
	close func(context.Context) error
}

// openBackend connects the store selected by cfg.Driver. The memory store
// is left nil so the session manager creates and owns one.
func openBackend(ctx context.Context, cfg storeConfig, log *slog.Logger) (*backend, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", storeMemory:
		return &backend{
			name:  storeMemory,
			check: httpserver.Check{Name: storeMemory, Fn: func(context.Context) error { return nil }},
			close: func(context.Context) error { return nil },
		}, nil

	case storeRedis:
		var rc redis.Config
		if err := config.Load(&rc); err != nil {
			return nil, err
		}
		client, err := redis.Connect(ctx, rc)
		if err != nil {
			return nil, err
		}
		return &backend{
			name:  storeRedis,
			store: redis.NewSessionStoreWithConfig(client, rc),
			check: httpserver.Check{Name: storeRedis, Fn: redis.Healthcheck(client)},
			close: func(context.Context) error { return client.Close() },
		}, nil

	case storePostgres:
		var pc pg.Config
		if err := config.Load(&pc); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, pc)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx, pool, pc, log.With(logger.Component("migrate"))); err != nil {
			pool.Close()
			return nil, err
		}
		store := pg.NewSessionStore(pool)
		return &backend{
			name:  storePostgres,
			store: store,
			check: httpserver.Check{Name: storePostgres, Fn: pg.Healthcheck(pool)},
			purge: store.DeleteExpired,
			close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil

	case storeMongo:
		var mc mongo.Config
		if err := config.Load(&mc); err != nil {
			return nil, err
		}
		db, err := mongo.NewWithDatabase(ctx, mc)
		if err != nil {
			return nil, err
		}
		store := mongo.NewSessionStore(db.Collection(mc.Collection))
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = db.Client().Disconnect(ctx)
			return nil, err
		}
		return &backend{
			name:  storeMongo,
			store: store,
			check: httpserver.Check{Name: storeMongo, Fn: mongo.Healthcheck(db.Client())},
			close: func(ctx context.Context) error { return db.Client().Disconnect(ctx) },
		}, nil

	case storeSQLite:
		var sc sqlite.Config
		if err := config.Load(&sc); err != nil {
			return nil, err
		}
		db, err := sqlite.Open(ctx, sc)
		if err != nil {
			return nil, err
		}
		store, err := sqlite.NewSessionStore(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		return &backend{
			name:  storeSQLite,
			store: store,
			check: httpserver.Check{Name: storeSQLite, Fn: sqlite.Healthcheck(db)},
			purge: store.DeleteExpired,
			close: func(context.Context) error { return db.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", errUnknownStore, cfg.Driver)
	}
}

// purgeExpired deletes expired rows on every tick until ctx is done.
// Stores with native expiry (redis, mongo, memory) have no purge function.
func purgeExpired(ctx context.Context, b *backend, every time.Duration, log *slog.Logger) {
	if b.purge == nil || every <= 0 {
		return
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start := time.Now()
			n, err := b.purge(ctx)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					log.ErrorContext(ctx, "failed to purge expired sessions", logger.Store(b.name), logger.Error(err))
				}
				continue
			}
			if n > 0 {
				log.InfoContext(ctx, "purged expired sessions",
					logger.Store(b.name),
					slog.Int64("count", n),
					logger.Duration(time.Since(start)),
				)
			}
		}
	}
}
