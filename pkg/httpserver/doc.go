// Package httpserver runs an http.Server with graceful shutdown and provides
// liveness and readiness handlers.
//
// Run blocks until the context is cancelled or SIGINT/SIGTERM arrives, then
// drains open connections within the shutdown timeout and runs the hooks
// registered with WithShutdownHook, which is where session stores and
// database pools get closed.
//
//	srv := httpserver.NewFromConfig(cfg,
//	    httpserver.WithLogger(log),
//	    httpserver.WithShutdownHook(func(context.Context) error { return manager.Close() }),
//	)
//
//	r := chi.NewRouter()
//	r.Get("/healthz", httpserver.HealthCheckHandler(log, 0))
//	r.Get("/readyz", httpserver.HealthCheckHandler(log, 2*time.Second,
//	    httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)},
//	))
//
//	if err := srv.Run(ctx, r); err != nil {
//	    log.Error("server stopped", logger.Error(err))
//	}
//
// Listen failures are wrapped with ErrStart and shutdown failures with
// ErrShutdown.
package httpserver
