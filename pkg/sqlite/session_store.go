package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	record     TEXT NOT NULL,
	expires_at INTEGER
);
CREATE INDEX IF NOT EXISTS sessions_expires_at_idx ON sessions (expires_at);
`

// SessionStore implements session.Store on SQLite. expires_at holds Unix
// milliseconds, NULL for sessions without expiry.
type SessionStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ session.Store = (*SessionStore)(nil)

// NewSessionStore creates the sessions table if needed.
func NewSessionStore(ctx context.Context, db *sql.DB) (*SessionStore, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, errors.Join(ErrFailedToMigrate, err)
	}
	return &SessionStore{db: db, now: time.Now}, nil
}

// Get loads a live session. Missing and expired rows map to session.ErrNotFound.
func (s *SessionStore) Get(ctx context.Context, id string) (session.Record, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM sessions WHERE id = ? AND (expires_at IS NULL OR expires_at > ?)`,
		id, s.now().UnixMilli(),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Record{}, session.ErrNotFound
	}
	if err != nil {
		return session.Record{}, err
	}
	return session.UnmarshalRecord([]byte(payload))
}

// Set upserts a session.
func (s *SessionStore) Set(ctx context.Context, id string, rec session.Record) error {
	payload, err := session.MarshalRecord(rec)
	if err != nil {
		return err
	}

	var expiresAt sql.NullInt64
	if exp, ok := rec.ExpiresAt(); ok {
		expiresAt = sql.NullInt64{Int64: exp.UnixMilli(), Valid: true}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, record, expires_at) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET record = excluded.record, expires_at = excluded.expires_at`,
		id, string(payload), expiresAt,
	)
	return err
}

// Destroy deletes a session row.
func (s *SessionStore) Destroy(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}

// All returns every live session.
func (s *SessionStore) All(ctx context.Context) (map[string]session.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, record FROM sessions WHERE expires_at IS NULL OR expires_at > ?`,
		s.now().UnixMilli(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	all := make(map[string]session.Record)
	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, err
		}
		rec, err := session.UnmarshalRecord([]byte(payload))
		if err != nil {
			return nil, err
		}
		all[id] = rec
	}
	return all, rows.Err()
}

// DeleteExpired purges expired rows and returns how many were removed.
func (s *SessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at IS NOT NULL AND expires_at <= ?`,
		s.now().UnixMilli(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
