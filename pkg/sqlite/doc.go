// Package sqlite provides a session.Store on SQLite through the pure Go
// modernc.org/sqlite driver, for single-node deployments that want sessions
// to survive restarts without running a database server.
//
//	db, err := sqlite.Open(ctx, sqlite.Config{Path: "sessions.db", JournalMode: "WAL"})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	store, err := sqlite.NewSessionStore(ctx, db)
//
// The connection pool is limited to one connection.
package sqlite
