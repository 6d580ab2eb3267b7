package session

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/signature"
)

// Manager owns the session configuration and the store, and produces the
// middleware that runs the per-request session lifecycle.
type Manager struct {
	config       Config
	policy       Policy
	cookie       Cookie
	signer       *signature.Signer
	store        Store
	ownedStore   *MemoryStore
	generateID   IDGenerator
	errorHandler ErrorHandler
	logger       *slog.Logger
	now          func() time.Time
}

// New creates a new session manager with the given options.
// Without a store an in-memory store is created and owned by the manager.
// A missing secret is not fatal here: every request is rejected with
// ErrMissingSecret instead.
func New(opts ...Option) *Manager {
	m := &Manager{
		config:     DefaultConfig(),
		generateID: UUIDGenerator,
		logger:     logger.Discard(),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	policy, err := ParsePolicy(m.config.Policy)
	if err != nil {
		// Fail fast on misconfiguration rather than guessing a policy
		panic("session: " + err.Error())
	}
	m.policy = policy

	if m.config.CookieName == "" {
		m.config.CookieName = DefaultConfig().CookieName
	}
	m.cookie = cookieFromConfig(m.config.Cookie)

	if signer, err := signature.New(m.config.Secrets...); err == nil {
		m.signer = signer
	}

	if m.store == nil {
		m.ownedStore = NewMemoryStore(m.config.CleanupInterval)
		m.store = m.ownedStore
	}

	if m.errorHandler == nil {
		m.errorHandler = m.defaultErrorHandler
	}

	m.logger = m.logger.With(logger.Component("session"))

	return m
}

// Store returns the configured store
func (m *Manager) Store() Store {
	return m.store
}

// Policy returns the configured policy
func (m *Manager) Policy() Policy {
	return m.policy
}

// CookieName returns the configured cookie name
func (m *Manager) CookieName() string {
	return m.config.CookieName
}

// NewSession returns a fresh, inactive session bound to the manager's store.
func (m *Manager) NewSession() *Session {
	return newSession(m)
}

// Close releases the store created by New. Injected stores are left to their owner.
func (m *Manager) Close() error {
	if m.ownedStore != nil {
		return m.ownedStore.Close()
	}
	return nil
}

func (m *Manager) defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	m.logger.ErrorContext(r.Context(), "session middleware rejected request", logger.Error(err))

	msg := http.StatusText(http.StatusInternalServerError)
	if isConfigurationError(err) {
		msg = err.Error()
	}
	http.Error(w, msg, http.StatusInternalServerError)
}
