package session

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
)

// Option is a functional option for configuring the Manager
type Option func(*Manager)

// ErrorHandler writes the response for requests the middleware rejects.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// WithStore sets a custom session store
func WithStore(store Store) Option {
	return func(m *Manager) {
		m.store = store
	}
}

// WithConfig sets custom configuration
func WithConfig(config Config) Option {
	return func(m *Manager) {
		m.config = config
	}
}

// WithSecret sets the signing secrets. The first one signs new cookies.
func WithSecret(secrets ...string) Option {
	return func(m *Manager) {
		m.config.Secrets = secrets
	}
}

// WithCookieName sets the session cookie name
func WithCookieName(name string) Option {
	return func(m *Manager) {
		m.config.CookieName = name
	}
}

// WithTrustProxy makes the middleware honour X-Forwarded-Proto
func WithTrustProxy(trust bool) Option {
	return func(m *Manager) {
		m.config.TrustProxy = trust
	}
}

// WithPolicy selects the persistent or transactional policy
func WithPolicy(p Policy) Option {
	return func(m *Manager) {
		m.policy = p
		m.config.Policy = p.String()
	}
}

// WithCookieConfig replaces all cookie attributes
func WithCookieConfig(cfg cookie.Config) Option {
	return func(m *Manager) {
		m.config.Cookie = cfg
	}
}

// WithCookiePath sets the cookie path, which also scopes persistent sessions
func WithCookiePath(path string) Option {
	return func(m *Manager) {
		m.config.Cookie.Path = path
	}
}

// WithCookieDomain sets the cookie domain
func WithCookieDomain(domain string) Option {
	return func(m *Manager) {
		m.config.Cookie.Domain = domain
	}
}

// WithCookieMaxAge sets the cookie lifetime; expiry rolls forward on every response
func WithCookieMaxAge(d time.Duration) Option {
	return func(m *Manager) {
		m.config.Cookie.MaxAge = d
	}
}

// WithCookieSecure marks the cookie Secure; plain HTTP requests are then rejected
func WithCookieSecure(secure bool) Option {
	return func(m *Manager) {
		m.config.Cookie.Secure = secure
	}
}

// WithCookieHTTPOnly sets the HttpOnly attribute
func WithCookieHTTPOnly(httpOnly bool) Option {
	return func(m *Manager) {
		m.config.Cookie.HttpOnly = httpOnly
	}
}

// WithCookieSameSite sets the SameSite attribute
func WithCookieSameSite(sameSite http.SameSite) Option {
	return func(m *Manager) {
		m.config.Cookie.SameSite = cookie.SameSiteString(sameSite)
	}
}

// WithIDGenerator sets the session identifier generator
func WithIDGenerator(gen IDGenerator) Option {
	return func(m *Manager) {
		if gen != nil {
			m.generateID = gen
		}
	}
}

// WithErrorHandler sets the handler for rejected requests
func WithErrorHandler(h ErrorHandler) Option {
	return func(m *Manager) {
		if h != nil {
			m.errorHandler = h
		}
	}
}

// WithLogger sets the logger. Nil keeps the silent default.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock overrides the time source used for cookie expiry
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}
