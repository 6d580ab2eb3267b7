package requestid

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

// Header is the default header carrying the request ID in both directions.
const Header = "X-Request-ID"

const maxIDLength = 128

var validID = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

type config struct {
	header        string
	trustIncoming bool
	generate      func() string
}

// Option configures the middleware.
type Option func(*config)

// WithHeader changes the header name. Empty keeps the default.
func WithHeader(name string) Option {
	return func(c *config) {
		if name != "" {
			c.header = name
		}
	}
}

// WithTrustIncoming controls whether a well-formed ID sent by the client is
// reused. It is on by default; turn it off for services exposed directly to
// untrusted clients.
func WithTrustIncoming(trust bool) Option {
	return func(c *config) { c.trustIncoming = trust }
}

// WithGenerator replaces the ID generator. Nil keeps the default.
func WithGenerator(fn func() string) Option {
	return func(c *config) {
		if fn != nil {
			c.generate = fn
		}
	}
}

// New returns middleware that assigns every request an ID, stores it in the
// request context and echoes it in the response header.
// Generated IDs are time-ordered UUIDv7 strings.
func New(opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		header:        Header,
		trustIncoming: true,
		generate:      newID,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(cfg.header)
			if !cfg.trustIncoming || !valid(id) {
				id = cfg.generate()
			}
			w.Header().Set(cfg.header, id)
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), id)))
		})
	}
}

// Middleware is New with default options.
func Middleware(next http.Handler) http.Handler {
	return New()(next)
}

func newID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

func valid(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}
	return validID.MatchString(id)
}
