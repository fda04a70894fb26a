package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_ObserveRequest(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveRequest("/household/{householdId}", http.MethodGet, 200, 5*time.Millisecond)
	m.ObserveRequest("/household/{householdId}", http.MethodGet, 200, 5*time.Millisecond)
	m.ObserveRequest("/household/{householdId}", http.MethodGet, 400, time.Millisecond)

	if got := testutil.ToFloat64(m.requests.WithLabelValues("/household/{householdId}", "GET", "200")); got != 2 {
		t.Fatalf("requests{200}=%v, want 2", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("/household/{householdId}", "GET", "400")); got != 1 {
		t.Fatalf("requests{400}=%v, want 1", got)
	}
}

func TestMetrics_RejectedAndHandler(t *testing.T) {
	t.Parallel()

	m := New()
	m.IncRejected("VALIDATION_ERROR")
	m.ObserveFPL(1.0)

	if got := testutil.ToFloat64(m.rejected.WithLabelValues("VALIDATION_ERROR")); got != 1 {
		t.Fatalf("rejected=%v, want 1", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"household_api_rejected_requests_total", "household_api_fpl_percentage_bucket"} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.ObserveRequest("/", "GET", 200, time.Millisecond)
	m.ObserveFPL(1)
	m.IncRejected("X")
}
