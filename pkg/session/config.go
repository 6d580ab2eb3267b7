package session

import (
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
)

// Config holds session configuration
type Config struct {
	// Secrets sign the session cookie. The first one signs, all of them verify.
	Secrets []string `env:"SESSION_SECRETS" envSeparator:","`

	// CookieName is the name of the session cookie (default: "session")
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"session"`

	// TrustProxy lets X-Forwarded-Proto decide whether a request is secure
	TrustProxy bool `env:"SESSION_TRUST_PROXY" envDefault:"false"`

	// Policy is "persistent" or "transactional"
	Policy string `env:"SESSION_POLICY" envDefault:"persistent"`

	// CleanupInterval for expired sessions of the default memory store (0 to disable)
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"5m"`

	Cookie cookie.Config
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		CookieName:      "session",
		Policy:          Persistent.String(),
		CleanupInterval: 5 * time.Minute,
		Cookie:          cookie.DefaultConfig(),
	}
}

// NewFromConfig creates a new Manager from the provided Config.
// An unknown policy name is reported instead of silently falling back.
func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	policy, err := ParsePolicy(cfg.Policy)
	if err != nil {
		return nil, err
	}

	configOpts := []Option{
		WithConfig(cfg),
		WithPolicy(policy),
	}

	configOpts = append(configOpts, opts...)

	return New(configOpts...), nil
}
