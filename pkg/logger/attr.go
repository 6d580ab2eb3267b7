package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// sessionIDPrefix is how much of a session identifier reaches the logs.
const sessionIDPrefix = 8

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// SessionID records a shortened session identifier under the key "session_id".
// Identifiers are bearer credentials, so only a prefix is logged.
func SessionID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	if len(id) > sessionIDPrefix {
		id = id[:sessionIDPrefix] + "…"
	}
	return slog.String("session_id", id)
}

// RequestID records the request identifier under the key "request_id".
// If id is empty, it returns an empty Attr.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// Store records the session store backend under the key "store".
func Store(name string) slog.Attr {
	return slog.String("store", name)
}

// Policy records the session policy under the key "policy".
func Policy(name string) slog.Attr {
	return slog.String("policy", name)
}

// Duration records a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event records the event name under the key "event".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}
