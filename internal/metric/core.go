// Package metric holds the runtime's Prometheus instruments and the
// HTTP endpoint that exposes them.
package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all runtime-level metrics (not world-specific).
type Metrics struct {
	// Frame loop metrics
	FrameDuration prometheus.Histogram
	FixedSteps    prometheus.Counter
	Frames        prometheus.Counter
	LiveNodes     prometheus.Gauge

	// World metrics
	EventsRecorded *prometheus.CounterVec
	Snapshots      prometheus.Counter
}

// New creates the runtime metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FrameDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "arbor",
				Subsystem: "loop",
				Name:      "frame_duration_seconds",
				Help:      "Wall time spent per frame step",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
			},
		),

		FixedSteps: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "arbor",
				Subsystem: "loop",
				Name:      "fixed_steps_total",
				Help:      "Total number of fixed-step passes executed",
			},
		),

		Frames: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "arbor",
				Subsystem: "loop",
				Name:      "frames_total",
				Help:      "Total number of frames stepped",
			},
		),

		LiveNodes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "arbor",
				Subsystem: "scene",
				Name:      "live_nodes",
				Help:      "Installed nodes reachable from the root at the last frame",
			},
		),

		EventsRecorded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "arbor",
				Subsystem: "world",
				Name:      "events_recorded_total",
				Help:      "Total number of journaled world events",
			},
			[]string{"kind"},
		),

		Snapshots: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "arbor",
				Subsystem: "world",
				Name:      "snapshots_total",
				Help:      "Total number of world snapshots written",
			},
		),
	}

	reg.MustRegister(
		m.FrameDuration,
		m.FixedSteps,
		m.Frames,
		m.LiveNodes,
		m.EventsRecorded,
		m.Snapshots,
	)
	return m
}

// ObserveFrame records one frame step.
func (m *Metrics) ObserveFrame(elapsed time.Duration, fixedSteps, liveNodes int) {
	m.FrameDuration.Observe(elapsed.Seconds())
	m.FixedSteps.Add(float64(fixedSteps))
	m.Frames.Inc()
	m.LiveNodes.Set(float64(liveNodes))
}

// RecordEvent increments the journaled-event counter for a kind.
func (m *Metrics) RecordEvent(kind string) {
	m.EventsRecorded.WithLabelValues(kind).Inc()
}

// RecordSnapshot increments the snapshot counter.
func (m *Metrics) RecordSnapshot() {
	m.Snapshots.Inc()
}
