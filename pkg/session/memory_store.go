package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !e.expiresAt.After(now)
}

// MemoryStore implements Store in process memory.
// Records are kept encoded so callers never share maps with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	now      func() time.Time
	ticker   *time.Ticker
	done     chan struct{}
	once     sync.Once
}

// NewMemoryStore creates a new in-memory session store.
// A positive cleanupInterval starts a goroutine purging expired sessions; stop it with Close.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	store := &MemoryStore{
		sessions: make(map[string]memoryEntry),
		now:      time.Now,
		done:     make(chan struct{}),
	}

	if cleanupInterval > 0 {
		store.ticker = time.NewTicker(cleanupInterval)
		go store.cleanupLoop()
	}

	return store
}

// Get retrieves a session by identifier
func (m *MemoryStore) Get(ctx context.Context, id string) (Record, error) {
	m.mu.RLock()
	entry, exists := m.sessions[id]
	m.mu.RUnlock()

	if !exists {
		return Record{}, ErrNotFound
	}

	if entry.expired(m.now()) {
		m.mu.Lock()
		// the entry may have been replaced since the read lock was released
		if cur, ok := m.sessions[id]; ok && cur.expired(m.now()) {
			delete(m.sessions, id)
		}
		m.mu.Unlock()
		return Record{}, ErrNotFound
	}

	return UnmarshalRecord(entry.payload)
}

// Set creates or replaces a session
func (m *MemoryStore) Set(ctx context.Context, id string, rec Record) error {
	payload, err := MarshalRecord(rec)
	if err != nil {
		return err
	}

	entry := memoryEntry{payload: payload}
	if exp, ok := rec.ExpiresAt(); ok {
		entry.expiresAt = exp
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[id] = entry
	return nil
}

// Destroy removes a session by identifier
func (m *MemoryStore) Destroy(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
	return nil
}

// All returns every session that has not expired
func (m *MemoryStore) All(ctx context.Context) (map[string]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := m.now()
	all := make(map[string]Record, len(m.sessions))
	for id, entry := range m.sessions {
		if entry.expired(now) {
			continue
		}
		rec, err := UnmarshalRecord(entry.payload)
		if err != nil {
			return nil, err
		}
		all[id] = rec
	}
	return all, nil
}

// DeleteExpired removes all expired sessions
func (m *MemoryStore) DeleteExpired(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, entry := range m.sessions {
		if entry.expired(now) {
			delete(m.sessions, id)
		}
	}

	return nil
}

// Len returns the number of stored sessions, expired ones included until purged.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close stops the cleanup goroutine
func (m *MemoryStore) Close() error {
	m.once.Do(func() {
		if m.ticker != nil {
			m.ticker.Stop()
		}
		close(m.done)
	})
	return nil
}

// cleanupLoop runs periodic cleanup of expired sessions
func (m *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-m.ticker.C:
			_ = m.DeleteExpired(context.Background())
		case <-m.done:
			return
		}
	}
}
