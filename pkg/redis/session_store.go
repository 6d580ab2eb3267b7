package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

const (
	defaultKeyPrefix     = "session:"
	defaultScanBatchSize = 1000
)

// SessionStore keeps sessions as JSON strings under "<prefix><id>".
// Keys carry a TTL matching the cookie expiry, so Redis evicts expired
// sessions on its own.
type SessionStore struct {
	db            redis.UniversalClient
	prefix        string
	scanBatchSize int64
	now           func() time.Time
}

var _ session.Store = (*SessionStore)(nil)

// NewSessionStore wraps client with the default "session:" prefix.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return &SessionStore{
		db:            client,
		prefix:        defaultKeyPrefix,
		scanBatchSize: defaultScanBatchSize,
		now:           time.Now,
	}
}

// NewSessionStoreWithConfig is NewSessionStore with prefix and scan batch size taken from cfg.
func NewSessionStoreWithConfig(client redis.UniversalClient, cfg Config) *SessionStore {
	s := NewSessionStore(client)
	if cfg.KeyPrefix != "" {
		s.prefix = cfg.KeyPrefix
	}
	if cfg.ScanBatchSize > 0 {
		s.scanBatchSize = cfg.ScanBatchSize
	}
	return s
}

func (s *SessionStore) key(id string) string {
	return s.prefix + id
}

// Get loads a session. Missing keys map to session.ErrNotFound.
func (s *SessionStore) Get(ctx context.Context, id string) (session.Record, error) {
	payload, err := s.db.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return session.Record{}, session.ErrNotFound
	}
	if err != nil {
		return session.Record{}, err
	}
	return session.UnmarshalRecord(payload)
}

// Set writes a session. Records without expiry are stored without TTL;
// already expired records are removed instead of written.
func (s *SessionStore) Set(ctx context.Context, id string, rec session.Record) error {
	ttl := rec.TTL(s.now())
	if ttl < 0 {
		return s.Destroy(ctx, id)
	}

	payload, err := session.MarshalRecord(rec)
	if err != nil {
		return err
	}
	return s.db.Set(ctx, s.key(id), payload, ttl).Err()
}

// Destroy deletes a session key.
func (s *SessionStore) Destroy(ctx context.Context, id string) error {
	return s.db.Del(ctx, s.key(id)).Err()
}

// All walks the prefix with SCAN so large keyspaces do not block the server.
// Keys that disappear between SCAN and GET are skipped.
func (s *SessionStore) All(ctx context.Context) (map[string]session.Record, error) {
	all := make(map[string]session.Record)

	var cursor uint64
	for {
		keys, next, err := s.db.Scan(ctx, cursor, s.prefix+"*", s.scanBatchSize).Result()
		if err != nil {
			return nil, err
		}

		if len(keys) > 0 {
			values, err := s.db.MGet(ctx, keys...).Result()
			if err != nil {
				return nil, err
			}
			for i, v := range values {
				raw, ok := v.(string)
				if !ok {
					continue
				}
				rec, err := session.UnmarshalRecord([]byte(raw))
				if err != nil {
					return nil, err
				}
				all[strings.TrimPrefix(keys[i], s.prefix)] = rec
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return all, nil
}

// Conn returns the underlying Redis client.
func (s *SessionStore) Conn() redis.UniversalClient {
	return s.db
}
