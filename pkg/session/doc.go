// Package session implements the request-scoped session lifecycle for
// net/http applications: a signed identifier cookie, a pluggable store and a
// middleware that decides per request whether the session is saved and
// whether its cookie is sent.
//
// # Architecture
//
// A Manager holds the configuration, the signing secrets and the Store. Its
// Middleware runs the following steps for every request:
//
//	┌────────┐  Cookie: session=s:<id>.<sig>   ┌────────────┐
//	│ Client │ ──────────────────────────────► │ Middleware │
//	└────────┘                                 └────────────┘
//	     ▲                                        │ verify, Store.Get, Inflate
//	     │  Set-Cookie (before headers)           ▼
//	     └─────────────────────────────── handler mutates *Session
//	                                              │ Store.Set when active
//	                                              ▼
//	                                         ┌────────┐
//	                                         │ Store  │ (memory, redis, pg, …)
//	                                         └────────┘
//
// A request starts with an inactive session. It becomes active only when the
// handler calls Generate or when a stored session is loaded through a valid
// cookie. Inactive sessions are never saved and never set a cookie, so
// anonymous traffic does not create store entries.
//
// # Policies
//
// Persistent (default) sessions are active once generated or loaded, and the
// cookie path limits which requests receive a session at all. Transactional
// sessions are active as soon as they hold an identifier and always carry the
// Secure cookie attribute.
//
// # Usage
//
//	manager := session.New(
//	    session.WithSecret(os.Getenv("SESSION_SECRET")),
//	    session.WithCookieMaxAge(24*time.Hour),
//	)
//	defer manager.Close()
//
//	mux.Handle("/", manager.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//	    sess := session.MustFromContext(r.Context())
//	    if !sess.Active() {
//	        if err := sess.Generate(r.Context()); err != nil {
//	            http.Error(w, err.Error(), http.StatusInternalServerError)
//	            return
//	        }
//	    }
//	    n, _ := sess.GetInt("visits")
//	    sess.Set("visits", n+1)
//	})))
//
// # Error Handling
//
// Configuration problems (ErrMissingSecret, ErrInsecureConnection) and store
// failures other than ErrNotFound reject the request through the configured
// ErrorHandler, which defaults to a 500 response. A session the store does not
// know is treated like an anonymous request. Save failures are reported to the
// ErrorHandler when the response has not started yet and logged otherwise.
//
// # Concurrency
//
// A Session belongs to one request. Stores are shared and must tolerate
// concurrent access; two requests carrying the same identifier race on save
// and the last write wins.
package session
