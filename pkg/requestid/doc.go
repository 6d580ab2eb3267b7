// Package requestid assigns a correlation ID to every HTTP request.
//
// The middleware reuses a well-formed X-Request-ID sent by the client, or
// generates a UUIDv7 otherwise, stores it in the request context and echoes it
// in the response. LoggerExtractor plugs the ID into the logger package so
// that every record logged with the request context carries "request_id":
//
//	log := logger.New(logger.WithContextExtractors(
//	    requestid.LoggerExtractor(),
//	    session.LoggerExtractor(),
//	))
//
//	r := chi.NewRouter()
//	r.Use(requestid.New(requestid.WithTrustIncoming(false)))
//
// Incoming IDs longer than 128 bytes or containing characters outside
// [A-Za-z0-9_-] are replaced.
package requestid
