package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mohamine831/cupid-nuitee/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record one sample per family so counters are non-zero
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)
	observability.ObserveExternal("cupid", "property", 200, 30*time.Millisecond)
	observability.ObserveCache("properties", "hit")
	observability.ObserveIngest(true, 250*time.Millisecond)
	observability.ObserveIngest(false, 40*time.Millisecond)

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, want := range []string{
		"cupid_http_requests_total",
		"cupid_external_requests_total",
		"cupid_cache_events_total",
		`cupid_ingest_runs_total{result="ok"}`,
		`cupid_ingest_runs_total{result="failed"}`,
		"cupid_ingest_duration_seconds",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output", want)
		}
	}
}
