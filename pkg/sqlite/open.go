package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open opens the database with a single connection, since SQLite allows one
// writer at a time, and applies the connection pragmas from cfg.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	if cfg.Path == "" {
		return nil, ErrEmptyPath
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, errors.Join(ErrFailedToOpen, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{"PRAGMA synchronous=NORMAL", "PRAGMA temp_store=MEMORY"}
	if cfg.JournalMode != "" && cfg.Path != ":memory:" {
		pragmas = append(pragmas, fmt.Sprintf("PRAGMA journal_mode=%s", cfg.JournalMode))
	}
	if cfg.BusyTimeout > 0 {
		pragmas = append(pragmas, fmt.Sprintf("PRAGMA busy_timeout=%d", cfg.BusyTimeout.Milliseconds()))
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, errors.Join(ErrFailedToOpen, fmt.Errorf("%s: %w", pragma, err))
		}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Join(ErrFailedToOpen, err)
	}
	return db, nil
}

// Healthcheck returns a readiness probe that pings the database.
func Healthcheck(db *sql.DB) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
