package monitoring

import (
	"time"

	"streamlay/internal/core/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusCollector struct {
	// Counters
	overlaysStoredTotal prometheus.Gauge
	opsTotal            *prometheus.CounterVec
	deleteFailures      prometheus.Counter

	// Histograms
	opDuration *prometheus.HistogramVec

	// Per-stream metrics
	streamOverlayCount *prometheus.GaugeVec
}

func NewPrometheusCollector() *PrometheusCollector {
	return &PrometheusCollector{
		overlaysStoredTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "streamlay_overlays_stored_total",
			Help: "Total number of overlays currently stored",
		}),

		opsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "streamlay_overlay_operations_total",
			Help: "Total overlay store operations by operation and outcome",
		}, []string{"operation", "outcome"}),

		deleteFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "streamlay_overlay_delete_failures_total",
			Help: "Deletes that failed after the overlay was already removed from a client view",
		}),

		opDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "streamlay_overlay_operation_duration_seconds",
			Help:    "Duration of overlay store operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		}, []string{"operation"}),

		streamOverlayCount: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "streamlay_stream_overlay_count",
			Help: "Number of overlays per stream by kind",
		}, []string{"stream_ref", "kind"}),
	}
}

func (p *PrometheusCollector) RecordOperation(operation, outcome string, duration time.Duration) {
	p.opsTotal.WithLabelValues(operation, outcome).Inc()
	p.opDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (p *PrometheusCollector) RecordOverlayCreated(ref domain.StreamRef, kind domain.OverlayKind) {
	p.overlaysStoredTotal.Inc()
	p.streamOverlayCount.WithLabelValues(string(ref), string(kind)).Inc()
}

func (p *PrometheusCollector) RecordOverlayDeleted(ref domain.StreamRef, kind domain.OverlayKind) {
	p.overlaysStoredTotal.Dec()
	p.streamOverlayCount.WithLabelValues(string(ref), string(kind)).Dec()
}

func (p *PrometheusCollector) RecordDeleteFailure() {
	p.deleteFailures.Inc()
}
