package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder collects the service's operational counters.
type Recorder interface {
	IncCacheHits(purpose string)
	IncCacheMisses(purpose string)
	IncUpstreamRequests(provider string, status int)
	ObserveUpstreamDuration(provider string, duration time.Duration)
	IncRequestsTotal(route string, status int)
}

type prometheusRecorder struct {
	cacheHits        *prometheus.CounterVec
	cacheMisses      *prometheus.CounterVec
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	requestsTotal    *prometheus.CounterVec
}

// New registers the collectors on reg and returns a Recorder backed by them.
func New(reg prometheus.Registerer) Recorder {
	f := promauto.With(reg)
	return &prometheusRecorder{
		cacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_cache_hits_total",
			Help: "Total number of cache hits",
		}, []string{"purpose"}),
		cacheMisses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_cache_misses_total",
			Help: "Total number of cache misses, including stale entries",
		}, []string{"purpose"}),
		upstreamRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_upstream_requests_total",
			Help: "Upstream API calls by provider and status class",
		}, []string{"provider", "status"}),
		upstreamDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "weather_upstream_request_duration_seconds",
			Help:    "Upstream API call duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		requestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_api_requests_total",
			Help: "HTTP API requests by route and status class",
		}, []string{"route", "status"}),
	}
}

func (m *prometheusRecorder) IncCacheHits(purpose string) {
	m.cacheHits.WithLabelValues(purpose).Inc()
}

func (m *prometheusRecorder) IncCacheMisses(purpose string) {
	m.cacheMisses.WithLabelValues(purpose).Inc()
}

func (m *prometheusRecorder) IncUpstreamRequests(provider string, status int) {
	m.upstreamRequests.WithLabelValues(provider, StatusBucket(status)).Inc()
}

func (m *prometheusRecorder) ObserveUpstreamDuration(provider string, duration time.Duration) {
	m.upstreamDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

func (m *prometheusRecorder) IncRequestsTotal(route string, status int) {
	m.requestsTotal.WithLabelValues(route, StatusBucket(status)).Inc()
}

// StatusBucket collapses an HTTP status into its class; 0 means the request
// never got a response.
func StatusBucket(code int) string {
	switch {
	case code == 0:
		return "error"
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		if code == 429 {
			return strconv.Itoa(code)
		}
		return "4xx"
	default:
		return "5xx"
	}
}

// Noop returns a Recorder that drops everything.
func Noop() Recorder { return noopRecorder{} }

type noopRecorder struct{}

func (noopRecorder) IncCacheHits(string) {}
func (noopRecorder) IncCacheMisses(string) {}
func (noopRecorder) IncUpstreamRequests(string, int) {}
func (noopRecorder) ObserveUpstreamDuration(string, time.Duration) {}
func (noopRecorder) IncRequestsTotal(string, int) {}
