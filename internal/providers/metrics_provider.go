package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"dmrmonitor/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	IncFramesTotal(opcode string)
	IncDropped(reason string)
	SetLinkConnected(connected bool)
	IncReconnects()
	IncBroadcasts(tag string)
	SetSubscribers(count int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	framesTotal         *prometheus.CounterVec
	droppedTotal        *prometheus.CounterVec
	linkConnected       prometheus.Gauge
	reconnectsTotal     prometheus.Counter
	broadcastsTotal     *prometheus.CounterVec
	subscribers         prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncFramesTotal(opcode string) {
	m.framesTotal.WithLabelValues(opcode).Inc()
}

func (m *MetricsProvider) IncDropped(reason string) {
	m.droppedTotal.WithLabelValues(reason).Inc()
}

func (m *MetricsProvider) SetLinkConnected(connected bool) {
	if connected {
		m.linkConnected.Set(1)
		return
	}
	m.linkConnected.Set(0)
}

func (m *MetricsProvider) IncReconnects() {
	m.reconnectsTotal.Inc()
}

func (m *MetricsProvider) IncBroadcasts(tag string) {
	m.broadcastsTotal.WithLabelValues(tag).Inc()
}

func (m *MetricsProvider) SetSubscribers(count int) {
	m.subscribers.Set(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dmrmonitor_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dmrmonitor_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dmrmonitor_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dmrmonitor_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "dmrmonitor_persistence_duration_seconds",
			Help:    "Duration of persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		framesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dmrmonitor_link_frames_total",
			Help: "Frames received from the link process by opcode",
		}, []string{"opcode"}),

		droppedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dmrmonitor_dropped_total",
			Help: "Frames, packets and mutations dropped by reason",
		}, []string{"reason"}),

		linkConnected: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "dmrmonitor_link_connected",
			Help: "1 when the link process connection is established",
		}),

		reconnectsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dmrmonitor_link_reconnects_total",
			Help: "Total number of link reconnect attempts",
		}),

		broadcastsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dmrmonitor_broadcasts_total",
			Help: "Messages broadcast to subscribers by tag",
		}, []string{"tag"}),

		subscribers: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "dmrmonitor_subscribers",
			Help: "Currently connected dashboard subscribers",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncFramesTotal(_ string)                          {}
func (n *noopMetrics) IncDropped(_ string)                              {}
func (n *noopMetrics) SetLinkConnected(_ bool)                          {}
func (n *noopMetrics) IncReconnects()                                   {}
func (n *noopMetrics) IncBroadcasts(_ string)                           {}
func (n *noopMetrics) SetSubscribers(_ int)                             {}
