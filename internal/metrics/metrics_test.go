package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestStatusBucket(t *testing.T) {
	assert.Equal(t, "error", StatusBucket(0))
	assert.Equal(t, "2xx", StatusBucket(200))
	assert.Equal(t, "3xx", StatusBucket(304))
	assert.Equal(t, "4xx", StatusBucket(404))
	assert.Equal(t, "429", StatusBucket(429))
	assert.Equal(t, "5xx", StatusBucket(503))
}

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := New(reg).(*prometheusRecorder)

	rec.IncCacheHits("daily")
	rec.IncCacheHits("daily")
	rec.IncCacheMisses("current")
	rec.IncUpstreamRequests("openweathermap", 401)
	rec.IncUpstreamRequests("openweathermap", 0)
	rec.ObserveUpstreamDuration("openweathermap", 120*time.Millisecond)
	rec.IncRequestsTotal("/api/v1/weather", 200)

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.cacheHits.WithLabelValues("daily")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.cacheMisses.WithLabelValues("current")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.upstreamRequests.WithLabelValues("openweathermap", "4xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.upstreamRequests.WithLabelValues("openweathermap", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.requestsTotal.WithLabelValues("/api/v1/weather", "2xx")))
	assert.Equal(t, 1, testutil.CollectAndCount(rec.upstreamDuration))
}

func TestNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		n := Noop()
		n.IncCacheHits("daily")
		n.IncRequestsTotal("/", 500)
	})
}
