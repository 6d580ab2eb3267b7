// Package pg stores sessions in PostgreSQL through pgx/v5.
//
// Connect opens a pool with retries, Migrate applies the embedded goose
// migrations that create the sessions table, Healthcheck returns a readiness
// probe and SessionStore implements session.Store on top of the pool.
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
//	    return err
//	}
//
//	store := pg.NewSessionStore(pool)
//
// Expired rows are never returned. Call SessionStore.DeleteExpired
// periodically to reclaim space.
package pg
