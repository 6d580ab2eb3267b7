package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

// DB is the subset of *pgxpool.Pool used by SessionStore. pgx.Tx satisfies it too.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SessionStore persists sessions in the sessions table created by Migrate.
// The full record is stored as JSONB; expires_at mirrors the cookie expiry
// so expired rows can be filtered and purged in SQL.
type SessionStore struct {
	db  DB
	now func() time.Time
}

var _ session.Store = (*SessionStore)(nil)

func NewSessionStore(db DB) *SessionStore {
	return &SessionStore{db: db, now: time.Now}
}

const (
	selectSessionSQL = `SELECT record FROM sessions WHERE id = $1 AND (expires_at IS NULL OR expires_at > $2)`

	upsertSessionSQL = `INSERT INTO sessions (id, record, expires_at, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (id) DO UPDATE SET record = EXCLUDED.record, expires_at = EXCLUDED.expires_at, updated_at = now()`

	deleteSessionSQL = `DELETE FROM sessions WHERE id = $1`

	selectLiveSessionsSQL = `SELECT id, record FROM sessions WHERE expires_at IS NULL OR expires_at > $1`

	deleteExpiredSQL = `DELETE FROM sessions WHERE expires_at IS NOT NULL AND expires_at <= $1`
)

// Get loads a live session. Missing and expired rows map to session.ErrNotFound.
func (s *SessionStore) Get(ctx context.Context, id string) (session.Record, error) {
	var payload []byte
	if err := s.db.QueryRow(ctx, selectSessionSQL, id, s.now()).Scan(&payload); err != nil {
		if IsNotFoundError(err) {
			return session.Record{}, session.ErrNotFound
		}
		return session.Record{}, err
	}
	return session.UnmarshalRecord(payload)
}

// Set upserts a session.
func (s *SessionStore) Set(ctx context.Context, id string, rec session.Record) error {
	payload, err := session.MarshalRecord(rec)
	if err != nil {
		return err
	}

	var expiresAt *time.Time
	if exp, ok := rec.ExpiresAt(); ok {
		expiresAt = &exp
	}

	_, err = s.db.Exec(ctx, upsertSessionSQL, id, payload, expiresAt)
	return err
}

// Destroy deletes a session row.
func (s *SessionStore) Destroy(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, deleteSessionSQL, id)
	return err
}

// All returns every live session.
func (s *SessionStore) All(ctx context.Context) (map[string]session.Record, error) {
	rows, err := s.db.Query(ctx, selectLiveSessionsSQL, s.now())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	all := make(map[string]session.Record)
	for rows.Next() {
		var (
			id      string
			payload []byte
		)
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, err
		}
		rec, err := session.UnmarshalRecord(payload)
		if err != nil {
			return nil, err
		}
		all[id] = rec
	}
	return all, rows.Err()
}

// DeleteExpired purges expired rows and returns how many were removed.
func (s *SessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, deleteExpiredSQL, s.now())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
