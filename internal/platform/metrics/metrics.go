package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	fpl      prometheus.Histogram
	rejected *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "household_api",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method and status code.",
		}, []string{"route", "method", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "household_api",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		fpl: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "household_api",
			Name:      "fpl_percentage",
			Help:      "Distribution of computed FPL percentages (1.0 = at the poverty line).",
			Buckets:   []float64{0.5, 1, 1.38, 1.5, 2, 2.5, 3, 4, 5},
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "household_api",
			Name:      "rejected_requests_total",
			Help:      "Requests rejected by the application, by error code.",
		}, []string{"code"}),
	}
	reg.MustRegister(
		m.requests,
		m.latency,
		m.fpl,
		m.rejected,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(route, method).Observe(d.Seconds())
}

// ObserveFPL records a computed FPL percentage.
func (m *Metrics) ObserveFPL(pct float64) {
	if m == nil {
		return
	}
	m.fpl.Observe(pct)
}

// IncRejected counts an application-level rejection by error code.
func (m *Metrics) IncRejected(code string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(code).Inc()
}
