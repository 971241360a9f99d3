// Package metric provides Prometheus instrumentation for the Affix runtime.
//
// Metrics are optional: the dispatcher, clock, and registry each accept a
// *Metrics via SetMetrics and record nothing when none is configured.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the runtime-level collectors.
type Metrics struct {
	// BindingFires counts Fire calls per binding name.
	BindingFires *prometheus.CounterVec
	// SubscriptionsActive tracks the number of live subscription handles.
	SubscriptionsActive prometheus.Gauge
	// DispatchQueueDepth tracks callbacks waiting in the dispatcher.
	DispatchQueueDepth prometheus.Gauge
	// DispatchPanics counts panics recovered inside dispatched callbacks.
	DispatchPanics prometheus.Counter
	// TickDuration observes how long one frame tick fan-out takes.
	TickDuration prometheus.Histogram
}

// New creates a Metrics instance with all runtime collectors.
func New() *Metrics {
	return &Metrics{
		BindingFires: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "affix",
				Subsystem: "bindings",
				Name:      "fires_total",
				Help:      "Total number of binding fires",
			},
			[]string{"binding"},
		),
		SubscriptionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "affix",
				Subsystem: "subscriptions",
				Name:      "active",
				Help:      "Number of live subscription handles",
			},
		),
		DispatchQueueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "affix",
				Subsystem: "dispatch",
				Name:      "queue_depth",
				Help:      "Callbacks waiting in the dispatch queue",
			},
		),
		DispatchPanics: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "affix",
				Subsystem: "dispatch",
				Name:      "panics_total",
				Help:      "Panics recovered inside dispatched callbacks",
			},
		),
		TickDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "affix",
				Subsystem: "frame",
				Name:      "tick_duration_seconds",
				Help:      "Frame tick fan-out duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
}

// Register registers all collectors with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.BindingFires,
		m.SubscriptionsActive,
		m.DispatchQueueDepth,
		m.DispatchPanics,
		m.TickDuration,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
