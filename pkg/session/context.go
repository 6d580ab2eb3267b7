package session

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/sessionkit/pkg/logger"
)

type sessionContextKey struct{}

// requestState is what the middleware attaches to a request.
// The current session is swapped in place when a stored session is inflated.
type requestState struct {
	session     *Session
	requestedID string
	setCookie   string
}

func withState(ctx context.Context, st *requestState) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, st)
}

func stateFromContext(ctx context.Context) (*requestState, bool) {
	st, ok := ctx.Value(sessionContextKey{}).(*requestState)
	return st, ok && st != nil
}

// FromContext retrieves the current session of the request
func FromContext(ctx context.Context) (*Session, bool) {
	st, ok := stateFromContext(ctx)
	if !ok || st.session == nil {
		return nil, false
	}
	return st.session, true
}

// MustFromContext retrieves the session from the context or panics
func MustFromContext(ctx context.Context) *Session {
	session, ok := FromContext(ctx)
	if !ok {
		panic("session: not found in context")
	}
	return session
}

// RequestedID returns the identifier recovered from a validly signed request cookie.
// It is set even when the store no longer knows the session.
func RequestedID(ctx context.Context) string {
	st, ok := stateFromContext(ctx)
	if !ok {
		return ""
	}
	return st.requestedID
}

// LoggerExtractor adds the shortened session identifier to log records
// emitted with a request context.
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		sess, ok := FromContext(ctx)
		if !ok || sess.ID() == "" {
			return slog.Attr{}, false
		}
		return logger.SessionID(sess.ID()), true
	}
}
