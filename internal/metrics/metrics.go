// Package metrics exposes Prometheus counters for wizard navigation, backend
// operations and model calls.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rmgen_wizard_transitions_total",
			Help: "Accepted wizard step transitions by source and target step",
		},
		[]string{"from", "to"},
	)
	backendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rmgen_backend_requests_total",
			Help: "Backend API operations by outcome",
		},
		[]string{"operation", "status"},
	)
	clientRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rmgen_api_client_requests_total",
			Help: "Calls made by the wizard's API client by outcome",
		},
		[]string{"operation", "status"},
	)
	llmRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rmgen_llm_request_duration_seconds",
			Help:    "Duration of chat model requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "model", "status"},
	)
)

func status(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

// ObserveTransition counts an accepted step change.
func ObserveTransition(from, to string) {
	transitionsTotal.WithLabelValues(from, to).Inc()
}

// ObserveBackend counts one backend operation.
func ObserveBackend(operation string, success bool) {
	backendRequestsTotal.WithLabelValues(operation, status(success)).Inc()
}

// ObserveClient counts one API client call.
func ObserveClient(operation string, success bool) {
	clientRequestsTotal.WithLabelValues(operation, status(success)).Inc()
}

// ObserveLLM records the duration of one model call.
func ObserveLLM(provider, model string, success bool, d time.Duration) {
	llmRequestDuration.WithLabelValues(provider, model, status(success)).Observe(d.Seconds())
}
