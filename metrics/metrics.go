// Package metrics exposes Prometheus instrumentation for aggregation rounds.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "secagg"

// Round outcomes used as the status label of RoundsTotal.
const (
	StatusOK          = "ok"
	StatusNotFound    = "dlog_not_found"
	StatusEntropy     = "insufficient_entropy"
	StatusInvalid     = "invalid_input"
	StatusCancelled   = "cancelled"
	StatusOtherFailed = "failed"
)

// Metrics holds the round collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	RoundsTotal    *prometheus.CounterVec
	DLogIterations prometheus.Histogram
	RoundDuration  prometheus.Histogram
	Participants   prometheus.Gauge
	NoiseScale     prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RoundsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_total",
			Help:      "Aggregation rounds by outcome.",
		}, []string{"status"}),
		DLogIterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dlog_iterations",
			Help:      "Group operations spent recovering the aggregate scalar.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 16),
		}),
		RoundDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "round_duration_seconds",
			Help:      "Time spent on aggregation and scalar recovery.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 14),
		}),
		Participants: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "participants",
			Help:      "Participants in the last round.",
		}),
		NoiseScale: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "noise_scale",
			Help:      "Laplace scale sensitivity/epsilon of the last release.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.RoundsTotal, m.DLogIterations, m.RoundDuration, m.Participants, m.NoiseScale)
	}
	return m
}

// RoundStarted records the size of a new round.
func (m *Metrics) RoundStarted(participants int) {
	if m == nil {
		return
	}
	m.Participants.Set(float64(participants))
}

// RoundFinished records a round outcome.
func (m *Metrics) RoundFinished(status string, elapsed time.Duration, iterations uint64, scale float64) {
	if m == nil {
		return
	}
	m.RoundsTotal.WithLabelValues(status).Inc()
	if status != StatusOK {
		return
	}
	m.RoundDuration.Observe(elapsed.Seconds())
	m.DLogIterations.Observe(float64(iterations))
	m.NoiseScale.Set(scale)
}
