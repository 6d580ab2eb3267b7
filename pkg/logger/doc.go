// Package logger builds *slog.Logger values for sessionkit services and
// provides attribute helpers that keep key names consistent.
//
// New assembles a slog text or JSON handler from functional options and wraps
// it with LogHandlerDecorator, which pulls request scoped values out of the
// context on every record. NewFromConfig does the same from environment
// driven Config.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(logger.EnvProduction, "sessiond"),
//	    logger.WithContextValue("request_id", requestIDKey{}),
//	)
//	logger.SetAsDefault(log)
//
//	log.ErrorContext(ctx, "session save failed",
//	    logger.SessionID(sess.ID()),
//	    logger.Error(err),
//	)
//
// Error, Errors, SessionID and RequestID return an empty slog.Attr for nil or
// empty input, so they can be passed unconditionally. SessionID logs only a
// prefix of the identifier.
package logger
