package session

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
)

// Middleware attaches a session to every request it serves.
//
// The request cookie is verified and, when valid, the stored session is
// loaded before next runs. Once next returns the session is saved if it is
// active, and its signed cookie is queued right before the response headers
// are sent. Invalid or unsigned cookies are treated as no cookie at all.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := stateFromContext(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}

		if m.signer == nil {
			m.errorHandler(w, r, ErrMissingSecret)
			return
		}

		if m.config.Cookie.Secure && !IsSecure(r, m.config.TrustProxy) {
			m.errorHandler(w, r, ErrInsecureConnection)
			return
		}

		if m.policy.scoped() && !pathInScope(r.URL.Path, m.cookie.Path) {
			next.ServeHTTP(w, r)
			return
		}

		st := &requestState{}
		hw := newHookWriter(w, func(h http.Header) { m.emitCookie(r.Context(), h, st) })

		if id, ok := cookie.DecodeSigned(r, m.config.CookieName, m.signer); ok {
			st.requestedID = id
		}

		st.session = m.NewSession()
		r = r.WithContext(withState(r.Context(), st))

		if st.requestedID != "" {
			rec, err := m.store.Get(r.Context(), st.requestedID)
			switch {
			case err == nil:
				st.session = st.session.Inflate(st.requestedID, rec)
			case errors.Is(err, ErrNotFound):
				// stale cookie: carry on without a session
			default:
				m.errorHandler(w, r, err)
				return
			}
		}

		next.ServeHTTP(hw, r)

		m.finalize(w, r, hw, st)
	})
}

// emitCookie is the before-headers hook.
func (m *Manager) emitCookie(ctx context.Context, h http.Header, st *requestState) {
	sess := st.session
	if !sess.ShouldSetCookie() {
		return
	}

	sess.Touch(m.now())

	value, err := cookie.EncodeSigned(m.config.CookieName, sess.ID(), m.signer, sess.cookie.Options())
	if err != nil {
		m.logger.ErrorContext(ctx, "failed to encode session cookie", logger.Error(err))
		return
	}

	cookie.Append(h, value)
	st.setCookie = value
}

// finalize is the before-finish hook. The save completes before the handler
// chain returns to net/http, so a response never outruns its session write.
func (m *Manager) finalize(w http.ResponseWriter, r *http.Request, hw *hookWriter, st *requestState) {
	headersSent := hw.finish()

	sess := st.session
	if !sess.ShouldSave() {
		return
	}

	// a client hanging up must not abort a save that is already due
	ctx := context.WithoutCancel(r.Context())
	err := m.store.Set(ctx, sess.ID(), sess.Record())
	if err == nil {
		return
	}

	err = errors.Join(ErrSave, err)
	if headersSent {
		m.logger.ErrorContext(ctx, "session save failed after response was sent", logger.Error(err))
		return
	}

	if st.setCookie != "" {
		cookie.Remove(w.Header(), st.setCookie)
	}
	m.errorHandler(w, r, err)
}

// IsSecure reports whether r arrived over TLS. With trustProxy the first
// X-Forwarded-Proto value is honoured as well; without it the header is ignored.
func IsSecure(r *http.Request, trustProxy bool) bool {
	if r.TLS != nil {
		return true
	}
	if !trustProxy {
		return false
	}

	proto, _, _ := strings.Cut(r.Header.Get("X-Forwarded-Proto"), ",")
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(proto)), "https")
}

// pathInScope implements cookie path matching (RFC 6265, section 5.1.4).
func pathInScope(path, scope string) bool {
	if scope == "" || scope == "/" {
		return true
	}
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, scope) {
		return false
	}
	return len(path) == len(scope) || strings.HasSuffix(scope, "/") || path[len(scope)] == '/'
}

func isConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}
