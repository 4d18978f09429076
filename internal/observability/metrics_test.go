package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterMetricsIdempotent(t *testing.T) {
	RegisterMetrics()
	RegisterMetrics()
}

func TestRecorders(t *testing.T) {
	RegisterMetrics()

	RecordCommand("flush", 0x00, 3*time.Millisecond)
	RecordCommand("flush", 0xc0, time.Millisecond)
	RecordBackendCall("Flush", 2*time.Millisecond, true)
	RecordBackendCall("Flush", 2*time.Millisecond, false)
	RecordEventPush(true)
	RecordEventPush(false)
	RecordHTTPRequest("GET", "/health", 200, 12*time.Millisecond)

	if got := testutil.ToFloat64(commandsTotal.WithLabelValues("flush", "0")); got != 1 {
		t.Fatalf("commands_total{flush,0} = %v", got)
	}
	if got := testutil.ToFloat64(commandsTotal.WithLabelValues("flush", "192")); got != 1 {
		t.Fatalf("commands_total{flush,192} = %v", got)
	}
	if got := testutil.ToFloat64(backendCalls.WithLabelValues("Flush", "true")); got != 1 {
		t.Fatalf("backend calls_total{Flush,true} = %v", got)
	}
	if got := testutil.ToFloat64(eventPushes.WithLabelValues("false")); got != 1 {
		t.Fatalf("pushes_total{false} = %v", got)
	}
	if got := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/health", "200")); got != 1 {
		t.Fatalf("requests_total{GET,/health,200} = %v", got)
	}
}
