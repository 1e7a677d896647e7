package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequestCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("GET", "/api/v1/items", "200", 25*time.Millisecond)
	m.ObserveRequest("GET", "/api/v1/items", "200", 10*time.Millisecond)
	m.ObserveRequest("POST", "/api/v1/items", "409", time.Millisecond)

	if got := testutil.CollectAndCount(reg, "http_requests_total"); got != 2 {
		t.Fatalf("expected 2 labeled series, got %d", got)
	}
}

func TestObserveRequestNilSafe(t *testing.T) {
	var m *HTTPMetrics
	// must not panic when metrics are disabled
	m.ObserveRequest("GET", "/ping", "200", time.Millisecond)

	empty := NewHTTPMetrics(nil)
	empty.ObserveRequest("GET", "", "200", time.Millisecond)
}

func TestNormalizeLabel(t *testing.T) {
	if got := normalizeLabel("  "); got != "unknown" {
		t.Fatalf("expected unknown, got %q", got)
	}
	if got := normalizeLabel("GET"); got != "GET" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}
