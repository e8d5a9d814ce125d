// Package metrics holds the Prometheus collectors of the relay.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	relayRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_requests_total",
			Help: "Total number of relayed chat requests by transport and final state",
		},
		[]string{"transport", "state"},
	)

	relayIncrementsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_increments_total",
			Help: "Total number of text increments forwarded to callers",
		},
	)

	relayActiveStreams = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_active_streams",
			Help: "Number of streams currently forwarding upstream output",
		},
	)

	upstreamHeaderLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relay_upstream_header_seconds",
			Help:    "Time until the provider answered with response headers",
			Buckets: prometheus.DefBuckets,
		},
	)

	registerOnce sync.Once
)

// ------------------------------------------------------------------------------------------------------
// Register adds the collectors to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestsTotal,
			httpRequestDuration,
			relayRequestsTotal,
			relayIncrementsTotal,
			relayActiveStreams,
			upstreamHeaderLatency,
		)
	})
}

// ------------------------------------------------------------------------------------------------------
func ObserveHTTPRequest(method, endpoint, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// ------------------------------------------------------------------------------------------------------
func ObserveRelay(transport, state string) {
	relayRequestsTotal.WithLabelValues(transport, state).Inc()
}

// ------------------------------------------------------------------------------------------------------
func ObserveUpstreamHeaders(d time.Duration) {
	upstreamHeaderLatency.Observe(d.Seconds())
}

// ------------------------------------------------------------------------------------------------------
func IncIncrements() {
	relayIncrementsTotal.Inc()
}

// ------------------------------------------------------------------------------------------------------
// StreamStarted marks a stream active and returns the func that ends it
func StreamStarted() func() {
	relayActiveStreams.Inc()
	return relayActiveStreams.Dec
}
