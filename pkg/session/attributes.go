package session

import (
	"net/http"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
)

// Cookie holds the transport attributes of a session cookie.
// It is metadata: never part of the session payload or its hash.
type Cookie struct {
	Path     string
	Domain   string
	MaxAge   time.Duration
	Expires  time.Time
	Secure   bool
	HTTPOnly bool
	SameSite http.SameSite
}

// cookieFromConfig builds the default attributes from cookie configuration.
func cookieFromConfig(cfg cookie.Config) Cookie {
	opts := cfg.Options()
	return Cookie{
		Path:     opts.Path,
		Domain:   opts.Domain,
		MaxAge:   cfg.MaxAge,
		Secure:   opts.Secure,
		HTTPOnly: opts.HttpOnly,
		SameSite: opts.SameSite,
	}
}

// resetExpiry moves Expires to now+MaxAge. Without MaxAge the cookie lives for the browser session.
func (c *Cookie) resetExpiry(now time.Time) {
	if c.MaxAge > 0 {
		c.Expires = now.Add(c.MaxAge)
	}
}

// Options converts the attributes for the cookie codec.
func (c Cookie) Options() cookie.Options {
	return cookie.Options{
		Path:     c.Path,
		Domain:   c.Domain,
		MaxAge:   int(c.MaxAge / time.Second),
		Expires:  c.Expires,
		Secure:   c.Secure,
		HttpOnly: c.HTTPOnly,
		SameSite: c.SameSite,
	}
}

func (c Cookie) stored() StoredCookie {
	sc := StoredCookie{
		Path:     c.Path,
		Domain:   c.Domain,
		MaxAge:   c.MaxAge.Milliseconds(),
		Secure:   c.Secure,
		HTTPOnly: c.HTTPOnly,
		SameSite: cookie.SameSiteString(c.SameSite),
	}
	if !c.Expires.IsZero() {
		sc.Expires = c.Expires.UTC().Format(time.RFC3339Nano)
	}
	return sc
}

// cookieFromStored reconstitutes attributes loaded from a store.
// Expires arrives as a string and becomes an instant; MaxAge is carried over
// so rolling expiration keeps working after a reload.
func cookieFromStored(sc StoredCookie) Cookie {
	c := Cookie{
		Path:     sc.Path,
		Domain:   sc.Domain,
		MaxAge:   time.Duration(sc.MaxAge) * time.Millisecond,
		Secure:   sc.Secure,
		HTTPOnly: sc.HTTPOnly,
		SameSite: cookie.ParseSameSite(sc.SameSite),
	}
	if t, ok := parseTimestamp(sc.Expires); ok {
		c.Expires = t
	}
	return c
}

// parseTimestamp accepts RFC 3339 and HTTP-date timestamps.
func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if t, err := http.ParseTime(s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
