// Package metrics exposes Prometheus collectors for the sync pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SyncMetrics implements ports.MetricsRecorder with Prometheus collectors.
type SyncMetrics struct {
	recordsFetched   *prometheus.CounterVec
	recordsSynced    *prometheus.CounterVec
	rateLimitRetries *prometheus.CounterVec
	syncFailures     *prometheus.CounterVec
	syncDuration     *prometheus.HistogramVec
}

// NewSyncMetrics creates and registers the sync collectors.
func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	m := &SyncMetrics{
		recordsFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sync_records_fetched_total",
			Help: "Raw records fetched from external platforms.",
		}, []string{"platform"}),
		recordsSynced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sync_records_synced_total",
			Help: "Records written to storage by completed syncs.",
		}, []string{"platform", "kind"}),
		rateLimitRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sync_rate_limit_retries_total",
			Help: "Throttled upstream requests that were retried.",
		}, []string{"host"}),
		syncFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sync_failures_total",
			Help: "Sync attempts that finished in error.",
		}, []string{"platform", "kind"}),
		syncDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sync_duration_seconds",
			Help:    "Wall-clock duration of sync attempts.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		}, []string{"platform", "kind"}),
	}
	reg.MustRegister(m.recordsFetched, m.recordsSynced, m.rateLimitRetries, m.syncFailures, m.syncDuration)
	return m
}

func (m *SyncMetrics) RecordsFetched(platform string, count int) {
	m.recordsFetched.WithLabelValues(platform).Add(float64(count))
}

func (m *SyncMetrics) RateLimitRetry(host string) {
	m.rateLimitRetries.WithLabelValues(host).Inc()
}

func (m *SyncMetrics) SyncFinished(platform, kind string, duration time.Duration, synced int, success bool) {
	m.recordsSynced.WithLabelValues(platform, kind).Add(float64(synced))
	m.syncDuration.WithLabelValues(platform, kind).Observe(duration.Seconds())
	if !success {
		m.syncFailures.WithLabelValues(platform, kind).Inc()
	}
}
