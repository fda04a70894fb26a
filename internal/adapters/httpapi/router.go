package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Overland-East-Bay/household-fpl-api/internal/platform/logging"
	"github.com/Overland-East-Bay/household-fpl-api/internal/platform/metrics"
	"github.com/Overland-East-Bay/household-fpl-api/internal/platform/ratelimiter"
	clockport "github.com/Overland-East-Bay/household-fpl-api/internal/ports/out/clock"
)

type RouterOptions struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	// Limiter enables per-client rate limiting when non-nil. Clock must be set with it.
	Limiter *ratelimiter.MapLimiter
	Clock   clockport.Clock
}

// NewRouter constructs the API HTTP router with default options.
func NewRouter(api *Server) http.Handler {
	return NewRouterWithOptions(api, RouterOptions{})
}

// NewRouterWithOptions constructs the API HTTP router.
//
// Trailing slashes are stripped before routing, so "/household/" and "/household" are the same route.
func NewRouterWithOptions(api *Server, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger, opts.Metrics))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	if opts.Limiter != nil && opts.Clock != nil {
		r.Use(rateLimit(opts.Limiter, opts.Clock, opts.Metrics))
	}

	// Health endpoint is deliberately minimal (used for infra checks).
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Get("/", api.Index)
	r.Get("/sample-household", api.GetSampleHousehold)
	r.Post("/household", api.CreateHousehold)
	r.Get("/household/{householdId}", api.GetHousehold)
	r.Put("/household/{householdId}", api.UpdateHousehold)
	r.Delete("/household/{householdId}", api.DeleteHousehold)
	r.Get("/fpl/{householdId}", api.GetHouseholdFPL)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})
	return r
}
