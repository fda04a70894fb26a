package httpapi

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Overland-East-Bay/household-fpl-api/internal/platform/metrics"
	"github.com/Overland-East-Bay/household-fpl-api/internal/platform/ratelimiter"
	clockport "github.com/Overland-East-Bay/household-fpl-api/internal/ports/out/clock"
)

// requestLogger logs each request with method, path, route, status, duration and request id,
// and records it in metrics when m is non-nil.
func requestLogger(logger *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			duration := time.Since(start)
			route := routePattern(r)
			m.ObserveRequest(route, r.Method, status, duration)

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("route", route),
				slog.Int("status", status),
				slog.Duration("duration", duration),
				slog.String("remote", r.RemoteAddr),
			}
			if rid := middleware.GetReqID(r.Context()); rid != "" {
				attrs = append(attrs, slog.String("request_id", rid))
			}

			switch {
			case status >= 500:
				logger.LogAttrs(r.Context(), slog.LevelError, "request", attrs...)
			case status >= 400:
				logger.LogAttrs(r.Context(), slog.LevelWarn, "request", attrs...)
			default:
				logger.LogAttrs(r.Context(), slog.LevelInfo, "request", attrs...)
			}
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// rateLimit rejects clients that exceed their per-IP token bucket with 429.
// It must run after middleware.RealIP so RemoteAddr reflects the client.
func rateLimit(l *ratelimiter.MapLimiter, clk clockport.Clock, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Health and metrics endpoints are for infra and never limited.
			if r.URL.Path == "/healthz" || r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}
			if !l.Allow(clientIP(r), clk.Now()) {
				m.IncRejected(codeRateLimited)
				w.Header().Set("Retry-After", "1")
				writeError(w, r, http.StatusTooManyRequests, codeRateLimited, "too many requests", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
