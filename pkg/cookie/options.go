package cookie

import (
	"net/http"
	"time"
)

// Options are the attributes emitted alongside a cookie value.
type Options struct {
	Path     string
	Domain   string
	MaxAge   int // seconds; 0 omits the attribute, negative deletes the cookie
	Expires  time.Time
	Secure   bool
	HttpOnly bool
	SameSite http.SameSite
}

type Option func(*Options)

func WithPath(path string) Option {
	return func(o *Options) {
		o.Path = path
	}
}

func WithDomain(domain string) Option {
	return func(o *Options) {
		o.Domain = domain
	}
}

func WithMaxAge(seconds int) Option {
	return func(o *Options) {
		o.MaxAge = seconds
	}
}

func WithExpires(t time.Time) Option {
	return func(o *Options) {
		o.Expires = t
	}
}

func WithSecure(secure bool) Option {
	return func(o *Options) {
		o.Secure = secure
	}
}

func WithHTTPOnly(httpOnly bool) Option {
	return func(o *Options) {
		o.HttpOnly = httpOnly
	}
}

func WithSameSite(sameSite http.SameSite) Option {
	return func(o *Options) {
		o.SameSite = sameSite
	}
}

// Apply returns a copy of base with opts applied. base is not modified.
func Apply(base Options, opts ...Option) Options {
	result := base
	for _, opt := range opts {
		opt(&result)
	}
	return result
}
