package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegister_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestObserveRelay(t *testing.T) {
	before := testutil.ToFloat64(relayRequestsTotal.WithLabelValues("http", "CLOSED"))
	ObserveRelay("http", "CLOSED")
	assert.Equal(t, before+1, testutil.ToFloat64(relayRequestsTotal.WithLabelValues("http", "CLOSED")))
}

func TestStreamStarted(t *testing.T) {
	before := testutil.ToFloat64(relayActiveStreams)
	done := StreamStarted()
	assert.Equal(t, before+1, testutil.ToFloat64(relayActiveStreams))
	done()
	assert.Equal(t, before, testutil.ToFloat64(relayActiveStreams))
}

func TestObserveHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/health", "200"))
	ObserveHTTPRequest("GET", "/health", "200", 5*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/health", "200")))
}
