// Package ops serves the operational endpoints: a health probe and, when
// enabled, the pprof handlers.
package ops

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"datalens/internal"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Pinger is implemented by backends that can check their connection,
// such as the postgres object store's database handle
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options configures the ops router
type Options struct {
	Profiling bool
	Backend   string
	// Pinger is optional; without one the probe only reports liveness
	Pinger Pinger
}

type health struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
	Error   string `json:"error,omitempty"`
}

// NewRouter builds the chi router for the ops port
func NewRouter(opts Options, logger *internal.Logger) http.Handler {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	logger = logger.With("Ops")

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		resp := health{Status: "ok", Backend: opts.Backend}
		status := http.StatusOK

		if opts.Pinger != nil {
			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()
			if err := opts.Pinger.PingContext(ctx); err != nil {
				logger.Warn("health check failed: %v", err)
				resp.Status = "unavailable"
				resp.Error = err.Error()
				status = http.StatusServiceUnavailable
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(resp)
	})

	if opts.Profiling {
		r.Mount("/debug", middleware.Profiler())
		logger.Info("pprof mounted at /debug/pprof/")
	}
	return r
}
