package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service counters exposed on /metrics.
type Metrics struct {
	CheckinsTotal      *prometheus.CounterVec
	RelayDeliveries    prometheus.Counter
	RelayFailures      prometheus.Counter
	ExtractionFailures prometheus.Counter
	StorageFailures    prometheus.Counter
}

// New registers the counters on the default registry.
func New() *Metrics {
	return &Metrics{
		CheckinsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "attensync_checkins_total",
			Help: "Total number of committed check-ins by attendance status",
		}, []string{"status"}),
		RelayDeliveries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "attensync_relay_deliveries_total",
			Help: "Total number of relay payloads delivered to the webhook",
		}),
		RelayFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "attensync_relay_failures_total",
			Help: "Total number of relay deliveries that failed at the network level",
		}),
		ExtractionFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "attensync_extraction_failures_total",
			Help: "Total number of failed ID card extraction calls",
		}),
		StorageFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "attensync_storage_failures_total",
			Help: "Total number of persisted-list write failures",
		}),
	}
}

// IncCheckin counts a committed check-in with the given status.
func (m *Metrics) IncCheckin(status string) {
	if m == nil {
		return
	}
	m.CheckinsTotal.WithLabelValues(status).Inc()
}

// IncRelayDelivery counts a delivered relay payload.
func (m *Metrics) IncRelayDelivery() {
	if m == nil {
		return
	}
	m.RelayDeliveries.Inc()
}

// IncRelayFailure counts a failed relay delivery.
func (m *Metrics) IncRelayFailure() {
	if m == nil {
		return
	}
	m.RelayFailures.Inc()
}

// IncExtractionFailure counts a failed extraction call.
func (m *Metrics) IncExtractionFailure() {
	if m == nil {
		return
	}
	m.ExtractionFailures.Inc()
}

// IncStorageFailure counts a persisted write failure.
func (m *Metrics) IncStorageFailure() {
	if m == nil {
		return
	}
	m.StorageFailures.Inc()
}
