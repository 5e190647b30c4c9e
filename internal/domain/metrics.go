package domain

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	m "livesync.dev/pkg/livesync/internal/model"
)

const metricsNamespace = "livesync"

// Metrics holds the Prometheus collectors updated by the engine. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	items         *prometheus.CounterVec
	batchDuration *prometheus.HistogramVec
	collected     prometheus.Counter
}

// NewMetrics creates the engine collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	metrics := &Metrics{
		items: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "items_total",
			Help:      "Processed rollout items by operation and outcome.",
		}, []string{"operation", "outcome"}),
		batchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "batch_duration_seconds",
			Help:      "Duration of one depth level of an operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		collected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "collected_nodes_total",
			Help:      "Live-copy nodes emitted by tree collection.",
		}),
	}

	for _, collector := range []prometheus.Collector{metrics.items, metrics.batchDuration, metrics.collected} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}

	return metrics, nil
}

func (mt *Metrics) countStatuses(operation string, statuses []m.SyncStatus) {
	if mt == nil {
		return
	}

	for _, status := range statuses {
		mt.items.WithLabelValues(operation, outcome(status)).Inc()
	}
}

func (mt *Metrics) observeBatch(operation string, elapsed time.Duration) {
	if mt == nil {
		return
	}

	mt.batchDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (mt *Metrics) addCollected(count int) {
	if mt == nil {
		return
	}

	mt.collected.Add(float64(count))
}

func outcome(status m.SyncStatus) string {
	switch {
	case !status.Success:
		return "failure"
	case status.Partial:
		return "partial"
	default:
		return "success"
	}
}
