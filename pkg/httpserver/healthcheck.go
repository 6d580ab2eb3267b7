package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/logger"
)

// Check is a named readiness dependency, such as the session store.
type Check struct {
	Name string
	Fn   func(context.Context) error
}

// healthReport is the JSON body written by HealthCheckHandler.
type healthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HealthCheckHandler serves liveness and readiness probes.
// Without checks it always answers 200 {"status":"alive"}. With checks each
// one runs under timeout; the answer is 200 {"status":"ready"} when all pass
// and 503 {"status":"not_ready"} otherwise, with per-check results.
func HealthCheckHandler(log *slog.Logger, timeout time.Duration, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}

	return func(w http.ResponseWriter, r *http.Request) {
		report := healthReport{Status: "alive"}
		status := http.StatusOK

		if len(checks) > 0 {
			report.Status = "ready"
			report.Checks = make(map[string]string, len(checks))

			ctx := r.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			for _, c := range checks {
				if err := c.Fn(ctx); err != nil {
					log.ErrorContext(ctx, "readiness check failed", slog.String("check", c.Name), logger.Error(err))
					report.Checks[c.Name] = "fail"
					report.Status = "not_ready"
					status = http.StatusServiceUnavailable
					continue
				}
				report.Checks[c.Name] = "ok"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(report)
	}
}
