package session

import (
	"context"
	"encoding/json"
	"errors"
	"hash/crc32"
	"time"
)

// Session is the request-scoped view of one session: its identifier, payload
// and cookie attributes plus the policy deciding when it is saved.
// A Session is owned by a single request and is not safe for concurrent use.
type Session struct {
	id           string
	data         Data
	cookie       Cookie
	policy       Policy
	loaded       bool
	originalHash uint32
	m            *Manager
}

func newSession(m *Manager) *Session {
	s := &Session{
		data:   Data{},
		cookie: m.policy.apply(m.cookie),
		policy: m.policy,
		m:      m,
	}
	s.originalHash = s.Hash()
	return s
}

// ID returns the session identifier, empty until Generate or Inflate.
func (s *Session) ID() string {
	if s == nil {
		return ""
	}
	return s.id
}

// Policy returns the policy the session was created with.
func (s *Session) Policy() Policy {
	return s.policy
}

// Cookie returns a copy of the cookie attributes.
func (s *Session) Cookie() Cookie {
	return s.cookie
}

// Active reports whether the session must be saved and its cookie sent.
func (s *Session) Active() bool {
	return s != nil && s.policy.eligible(s.id, s.loaded)
}

// ShouldSave reports whether the session is persisted when the response finishes.
func (s *Session) ShouldSave() bool {
	return s.Active()
}

// ShouldSetCookie reports whether the signed identifier cookie is emitted.
func (s *Session) ShouldSetCookie() bool {
	return s.Active()
}

// Generate starts a new session, destroying the current one first if it is active.
// The payload is reset and the cookie attributes return to the configured defaults.
func (s *Session) Generate(ctx context.Context) error {
	prev := s.id
	if s.Active() {
		if err := s.Destroy(ctx); err != nil {
			return err
		}
	}

	id, err := s.m.generateID(ctx)
	if err != nil {
		return errors.Join(ErrIDGeneration, err)
	}
	if id == "" || id == prev {
		return ErrIDGeneration
	}

	s.id = id
	s.data = Data{}
	s.cookie = s.policy.apply(s.m.cookie)
	s.cookie.resetExpiry(s.m.now())
	s.loaded = true
	s.originalHash = s.Hash()
	return nil
}

// Inflate builds a new active session from a record loaded from the store.
// The receiver is left untouched; callers must use the returned session.
func (s *Session) Inflate(id string, rec Record) *Session {
	n := &Session{
		id:     id,
		data:   rec.Data.clone(),
		cookie: s.policy.apply(cookieFromStored(rec.Cookie)),
		policy: s.policy,
		loaded: true,
		m:      s.m,
	}
	n.originalHash = n.Hash()
	return n
}

// Destroy removes the session from the store and makes it inactive.
// It is a no-op for sessions without an identifier.
func (s *Session) Destroy(ctx context.Context) error {
	id := s.id
	s.id = ""
	s.loaded = false
	s.data = Data{}

	if id == "" {
		return nil
	}
	return s.m.store.Destroy(ctx, id)
}

// Touch renews the cookie expiry relative to now when a max age is configured.
func (s *Session) Touch(now time.Time) {
	s.cookie.resetExpiry(now)
}

// Hash returns a CRC-32 checksum of the JSON encoded payload.
// Identifier and cookie attributes do not take part.
func (s *Session) Hash() uint32 {
	data := s.data
	if data == nil {
		data = Data{}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return 0
	}
	return crc32.ChecksumIEEE(b)
}

// OriginalHash returns the payload hash taken when the session was created or loaded.
func (s *Session) OriginalHash() uint32 {
	return s.originalHash
}

// Modified reports whether the payload changed since the session was created or loaded.
func (s *Session) Modified() bool {
	return s.Hash() != s.originalHash
}

// Record returns a snapshot of the session suitable for a store.
func (s *Session) Record() Record {
	return Record{
		Data:   s.data.clone(),
		Cookie: s.cookie.stored(),
	}
}

// Get retrieves a value from session data
func (s *Session) Get(key string) (any, bool) {
	if s == nil || s.data == nil {
		return nil, false
	}
	val, ok := s.data[key]
	return val, ok
}

// GetString retrieves a string value from session data
func (s *Session) GetString(key string) (string, bool) {
	val, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, ok := val.(string)
	return str, ok
}

// GetInt retrieves an int value from session data.
// Numbers decoded from JSON arrive as float64 and are converted.
func (s *Session) GetInt(key string) (int, bool) {
	val, ok := s.Get(key)
	if !ok {
		return 0, false
	}
	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	default:
		return 0, false
	}
}

// GetBool retrieves a bool value from session data
func (s *Session) GetBool(key string) (bool, bool) {
	val, ok := s.Get(key)
	if !ok {
		return false, false
	}
	b, ok := val.(bool)
	return b, ok
}

// Set stores a value in session data
func (s *Session) Set(key string, value any) {
	if s == nil {
		return
	}
	if s.data == nil {
		s.data = Data{}
	}
	s.data[key] = value
}

// Delete removes a value from session data
func (s *Session) Delete(key string) {
	if s == nil || s.data == nil {
		return
	}
	delete(s.data, key)
}

// Clear removes all data from the session
func (s *Session) Clear() {
	if s == nil {
		return
	}
	s.data = Data{}
}
