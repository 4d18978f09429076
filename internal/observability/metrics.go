package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hiobridge",
			Subsystem: "dispatch",
			Name:      "commands_total",
			Help:      "Dispatched HIOMAP commands.",
		},
		[]string{"command", "cc"},
	)
	commandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hiobridge",
			Subsystem: "dispatch",
			Name:      "command_duration_seconds",
			Help:      "HIOMAP command handling duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"command", "cc"},
	)
	backendCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hiobridge",
			Subsystem: "backend",
			Name:      "calls_total",
			Help:      "RPC calls against the flash-mapping daemon.",
		},
		[]string{"method", "success"},
	)
	backendDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hiobridge",
			Subsystem: "backend",
			Name:      "call_duration_seconds",
			Help:      "Flash-mapping daemon call duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "success"},
	)
	eventPushes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hiobridge",
			Subsystem: "events",
			Name:      "pushes_total",
			Help:      "Upstream event command pushes by delivery outcome.",
		},
		[]string{"delivered"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hiobridge",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hiobridge",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			commandsTotal,
			commandDuration,
			backendCalls,
			backendDuration,
			eventPushes,
			httpRequests,
			httpDuration,
		)
	})
}

func RecordCommand(command string, cc uint8, duration time.Duration) {
	RegisterMetrics()
	ccLabel := strconv.Itoa(int(cc))
	commandsTotal.WithLabelValues(command, ccLabel).Inc()
	commandDuration.WithLabelValues(command, ccLabel).Observe(duration.Seconds())
}

func RecordBackendCall(method string, duration time.Duration, success bool) {
	RegisterMetrics()
	successLabel := strconv.FormatBool(success)
	backendCalls.WithLabelValues(method, successLabel).Inc()
	backendDuration.WithLabelValues(method, successLabel).Observe(duration.Seconds())
}

func RecordEventPush(delivered bool) {
	RegisterMetrics()
	eventPushes.WithLabelValues(strconv.FormatBool(delivered)).Inc()
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}
