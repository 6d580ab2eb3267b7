package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/sessionkit/pkg/httpserver"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/requestid"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

const (
	keyUser  = "user"
	keyViews = "views"
)

type sessionView struct {
	Authenticated bool   `json:"authenticated"`
	User          string `json:"user,omitempty"`
	Views         int    `json:"views"`
}

// newRouter mounts the probes outside the session middleware and the
// session routes behind it.
func newRouter(m *session.Manager, log *slog.Logger, checks ...httpserver.Check) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.New())
	r.Use(middleware.Recoverer)

	r.Get("/healthz", httpserver.HealthCheckHandler(log, 0))
	r.Get("/readyz", httpserver.HealthCheckHandler(log, 2*time.Second, checks...))

	r.Group(func(r chi.Router) {
		r.Use(m.Middleware)

		r.Get("/", handleView(log))
		r.Post("/login", handleLogin(log))
		r.Post("/logout", handleLogout(log))
	})

	return r
}

// handleView counts page views of signed-in visitors. Anonymous sessions
// have no identifier and are never saved.
func handleView(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.MustFromContext(r.Context())

		view := sessionView{Authenticated: sess.Active()}
		if sess.Active() {
			views, _ := sess.GetInt(keyViews)
			views++
			sess.Set(keyViews, views)
			view.Views = views
			view.User, _ = sess.GetString(keyUser)
		}

		writeJSON(w, log, r, http.StatusOK, view)
	}
}

// handleLogin starts a fresh session for the posted user name.
// Generate rotates the identifier, so a pre-login cookie is never reused.
func handleLogin(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := strings.TrimSpace(r.FormValue(keyUser))
		if user == "" {
			http.Error(w, "user is required", http.StatusBadRequest)
			return
		}

		sess := session.MustFromContext(r.Context())
		if err := sess.Generate(r.Context()); err != nil {
			log.ErrorContext(r.Context(), "failed to start session", logger.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		sess.Set(keyUser, user)

		log.InfoContext(r.Context(), "user signed in", logger.Event("login"))
		writeJSON(w, log, r, http.StatusOK, sessionView{Authenticated: true, User: user})
	}
}

func handleLogout(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.MustFromContext(r.Context())
		if !sess.Active() {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		log.InfoContext(r.Context(), "user signed out", logger.Event("logout"))
		if err := sess.Destroy(r.Context()); err != nil {
			log.ErrorContext(r.Context(), "failed to destroy session", logger.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.ErrorContext(r.Context(), "failed to write response", logger.Error(err))
	}
}
