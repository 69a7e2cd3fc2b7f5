package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveAPI(t *testing.T) {
	m := New()
	m.ObserveAPI("openmeteo", "success", 200*time.Millisecond)
	m.ObserveAPI("openmeteo", "success", 3*time.Second)
	m.ObserveAPI("opencage", "not_found", 50*time.Millisecond)

	if got := testutil.ToFloat64(m.requests.WithLabelValues("openmeteo", "success")); got != 2 {
		t.Errorf("expected 2 openmeteo successes, got %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("opencage", "not_found")); got != 1 {
		t.Errorf("expected 1 opencage miss, got %v", got)
	}
	if got := testutil.CollectAndCount(m.latency); got != 2 {
		t.Errorf("expected latency series for 2 apis, got %d", got)
	}
}

func TestObserveAPINil(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("openmeteo", "error", time.Second)
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveAPI("google", "error", 700*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`api_requests_total{api="google",status="error"} 1`,
		`api_response_time_seconds_bucket{api="google",le="1"} 1`,
		`api_response_time_seconds_bucket{api="google",le="0.5"} 0`,
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("scrape output missing %q", want)
		}
	}
}
