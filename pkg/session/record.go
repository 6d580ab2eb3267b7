package session

import (
	"encoding/json"
	"errors"
	"maps"
	"time"
)

// Data is the session payload. Values must be JSON-compatible.
type Data map[string]any

// Record is the serializable form of a session handed to stores.
// It holds payload and cookie attributes only, never behavior.
type Record struct {
	Data   Data         `json:"data"`
	Cookie StoredCookie `json:"cookie"`
}

// StoredCookie is the storage representation of Cookie.
type StoredCookie struct {
	Path     string `json:"path,omitempty"`
	Domain   string `json:"domain,omitempty"`
	MaxAge   int64  `json:"max_age_ms,omitempty"`
	Expires  string `json:"expires,omitempty"`
	Secure   bool   `json:"secure,omitempty"`
	HTTPOnly bool   `json:"http_only,omitempty"`
	SameSite string `json:"same_site,omitempty"`
}

// ExpiresAt returns the cookie expiry of the record, if any.
func (r Record) ExpiresAt() (time.Time, bool) {
	return parseTimestamp(r.Cookie.Expires)
}

// Expired reports whether the record has an expiry at or before now.
func (r Record) Expired(now time.Time) bool {
	exp, ok := r.ExpiresAt()
	return ok && !exp.After(now)
}

// TTL returns the time left until expiry, or 0 when the record never expires.
// Expired records report a negative duration.
func (r Record) TTL(now time.Time) time.Duration {
	exp, ok := r.ExpiresAt()
	if !ok {
		return 0
	}
	if ttl := exp.Sub(now); ttl > 0 {
		return ttl
	}
	return -1
}

// MarshalRecord encodes a record for byte oriented stores.
func MarshalRecord(r Record) ([]byte, error) {
	if r.Data == nil {
		r.Data = Data{}
	}
	return json.Marshal(r)
}

// UnmarshalRecord decodes a record produced by MarshalRecord.
func UnmarshalRecord(b []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(b, &r); err != nil {
		return Record{}, errors.Join(ErrCorruptRecord, err)
	}
	if r.Data == nil {
		r.Data = Data{}
	}
	return r, nil
}

func (d Data) clone() Data {
	if d == nil {
		return Data{}
	}
	return maps.Clone(d)
}
