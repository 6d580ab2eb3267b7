package cookie

import (
	"net/http"
	"strings"
	"time"
)

// Config holds the session cookie attributes loadable from the environment.
type Config struct {
	Path     string        `env:"SESSION_COOKIE_PATH" envDefault:"/"`
	Domain   string        `env:"SESSION_COOKIE_DOMAIN" envDefault:""`
	MaxAge   time.Duration `env:"SESSION_COOKIE_MAX_AGE" envDefault:"0"`
	Secure   bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
	HttpOnly bool          `env:"SESSION_COOKIE_HTTP_ONLY" envDefault:"true"`
	SameSite string        `env:"SESSION_COOKIE_SAME_SITE" envDefault:"lax"` // lax, strict, none or empty
}

// DefaultConfig returns default cookie configuration
func DefaultConfig() Config {
	return Config{
		Path:     "/",
		HttpOnly: true,
		SameSite: "lax",
	}
}

// Options converts the config into cookie Options. Expires is left zero:
// it is derived from MaxAge whenever a cookie is issued.
func (c Config) Options() Options {
	path := c.Path
	if path == "" {
		path = "/"
	}
	return Options{
		Path:     path,
		Domain:   c.Domain,
		MaxAge:   int(c.MaxAge / time.Second),
		Secure:   c.Secure,
		HttpOnly: c.HttpOnly,
		SameSite: ParseSameSite(c.SameSite),
	}
}

// ParseSameSite maps a textual SameSite policy to http.SameSite.
// Unknown values fall back to the default mode, which omits the attribute.
func ParseSameSite(s string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lax":
		return http.SameSiteLaxMode
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteDefaultMode
	}
}

// SameSiteString is the inverse of ParseSameSite.
func SameSiteString(s http.SameSite) string {
	switch s {
	case http.SameSiteLaxMode:
		return "lax"
	case http.SameSiteStrictMode:
		return "strict"
	case http.SameSiteNoneMode:
		return "none"
	default:
		return ""
	}
}
