// Command sessiond is a small HTTP service backed by the session middleware.
// It is configured entirely from the environment (and an optional .env file):
//
//	SESSION_SECRETS=new-secret,old-secret
//	SESSION_STORE=memory|redis|postgres|mongo|sqlite
//	HTTP_ADDR=:8080
//
// Store connection settings use the REDIS_*, PG_*, MONGODB_* and SQLITE_*
// variables of the matching packages.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/sessionkit/pkg/config"
	"github.com/dmitrymomot/sessionkit/pkg/httpserver"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/requestid"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "sessiond: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var logCfg logger.Config
	if err := config.Load(&logCfg); err != nil {
		return err
	}
	log, err := logger.NewFromConfig(logCfg, logger.WithContextExtractors(
		requestid.LoggerExtractor(),
		session.LoggerExtractor(),
	))
	if err != nil {
		return err
	}
	logger.SetAsDefault(log)

	var (
		sessCfg  session.Config
		storeCfg storeConfig
		httpCfg  httpserver.Config
	)
	if err := config.Load(&sessCfg); err != nil {
		return err
	}
	if err := config.Load(&storeCfg); err != nil {
		return err
	}
	if err := config.Load(&httpCfg); err != nil {
		return err
	}

	b, err := openBackend(ctx, storeCfg, log)
	if err != nil {
		return err
	}

	opts := []session.Option{session.WithLogger(log.With(logger.Component("session")))}
	if b.store != nil {
		opts = append(opts, session.WithStore(b.store))
	}
	manager, err := session.NewFromConfig(sessCfg, opts...)
	if err != nil {
		_ = b.close(ctx)
		return err
	}

	purgeCtx, stopPurge := context.WithCancel(ctx)
	defer stopPurge()

	srv := httpserver.NewFromConfig(httpCfg,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(l *slog.Logger) {
			l.Info("sessiond started",
				slog.String("addr", httpCfg.Addr),
				logger.Store(b.name),
				logger.Policy(manager.Policy().String()),
			)
		}),
		httpserver.WithShutdownHook(func(context.Context) error {
			stopPurge()
			return manager.Close()
		}),
		httpserver.WithShutdownHook(b.close),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer stopPurge()
		return srv.Run(gctx, newRouter(manager, log, b.check))
	})
	g.Go(func() error {
		purgeExpired(purgeCtx, b, storeCfg.PurgeInterval, log)
		return nil
	})
	return g.Wait()
}
