package providers

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dmrmonitor/internal/structures"
)

func withTestRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		prometheus.DefaultGatherer = prometheus.DefaultRegisterer.(prometheus.Gatherer)
	})
}

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	m := NewMetricsProvider(&structures.Config{Metrics: structures.MetricsConfig{Enabled: false}})
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	m.IncRequestsTotal("/test", 200)
	m.IncFramesTotal("RCM_SND")
	m.IncDropped("unknown_peer")
	m.SetLinkConnected(true)
	m.SetSubscribers(3)
}

func TestMetricsProvider_Counters(t *testing.T) {
	withTestRegistry(t)

	m := NewMetricsProvider(&structures.Config{Metrics: structures.MetricsConfig{Enabled: true}})
	mp, ok := m.(*MetricsProvider)
	require.True(t, ok, "should return MetricsProvider when enabled")

	m.IncFramesTotal("RCM_SND")
	m.IncFramesTotal("RCM_SND")
	m.IncDropped("truncated_packet")
	m.IncBroadcasts("d")
	m.IncReconnects()
	m.ObserveRequestDuration("/api/systems", 5*time.Millisecond)
	m.ObservePersistenceDuration(100 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(mp.framesTotal.WithLabelValues("RCM_SND")))
	assert.Equal(t, 1.0, testutil.ToFloat64(mp.droppedTotal.WithLabelValues("truncated_packet")))
	assert.Equal(t, 1.0, testutil.ToFloat64(mp.broadcastsTotal.WithLabelValues("d")))
	assert.Equal(t, 1.0, testutil.ToFloat64(mp.reconnectsTotal))
}

func TestMetricsProvider_Gauges(t *testing.T) {
	withTestRegistry(t)

	mp := NewMetricsProvider(&structures.Config{Metrics: structures.MetricsConfig{Enabled: true}}).(*MetricsProvider)

	mp.SetLinkConnected(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(mp.linkConnected))
	mp.SetLinkConnected(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(mp.linkConnected))

	mp.SetSubscribers(7)
	assert.Equal(t, 7.0, testutil.ToFloat64(mp.subscribers))
}

func TestHttpStatusBucket(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{101, "1xx"},
		{200, "2xx"},
		{301, "3xx"},
		{401, "4xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, httpStatusBucket(tt.code))
	}
}
