package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetrics(t *testing.T) {
	t.Parallel()
	m := NewMetrics()
	if m.handler == nil {
		t.Fatal("metrics handler not initialized")
	}
	if m.Registry() == nil {
		t.Fatal("registry not initialized")
	}
}

func TestMetrics_ActiveRequests(t *testing.T) {
	t.Parallel()
	m := NewMetrics()

	m.IncrementActiveRequests()
	m.IncrementActiveRequests()
	if got := testutil.ToFloat64(m.activeRequests); got != 2 {
		t.Errorf("active requests = %v, want 2", got)
	}
	m.DecrementActiveRequests()
	if got := testutil.ToFloat64(m.activeRequests); got != 1 {
		t.Errorf("active requests = %v, want 1", got)
	}
}

func TestMetrics_WritePrometheus(t *testing.T) {
	t.Parallel()
	m := NewMetrics()
	m.ObserveRequest(http.MethodGet, "/health", http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	m.WritePrometheus(rec, req)

	body := rec.Body.String()
	for _, want := range []string{
		"fibseq_active_requests",
		`fibseq_requests_total{method="GET",route="/health",status="200"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestServer_MetricsMiddleware(t *testing.T) {
	t.Parallel()
	s := newTestServer(&stubService{}, Config{})

	get(t, s.Handler(), "/health")
	get(t, s.Handler(), "/health")
	get(t, s.Handler(), "/missing")

	if got := testutil.ToFloat64(s.metrics.requestsTotal.WithLabelValues("GET", "/health", "200")); got != 2 {
		t.Errorf("health requests = %v, want 2", got)
	}
	if got := testutil.ToFloat64(s.metrics.requestsTotal.WithLabelValues("GET", "unmatched", "404")); got != 1 {
		t.Errorf("unmatched requests = %v, want 1", got)
	}
	if got := testutil.ToFloat64(s.metrics.activeRequests); got != 0 {
		t.Errorf("active requests after completion = %v, want 0", got)
	}

	rec := get(t, s.Handler(), "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "fibseq_requests_total") {
		t.Error("/metrics does not expose request counter")
	}
}
