// Package metrics exposes Prometheus metrics of the render service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters
var (
	RendersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dtmf_renders_total",
		Help: "Total render requests by kind and outcome",
	}, []string{"kind", "outcome"})
	SamplesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dtmf_samples_total",
		Help: "Total samples generated",
	})
	SymbolsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dtmf_symbols_total",
		Help: "Total keypad symbols rendered",
	})
)

// Gauges
var (
	ActiveRenders = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dtmf_active_renders",
		Help: "Number of renders currently streaming",
	})
)

// Histograms
var (
	RenderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dtmf_render_duration_seconds",
		Help:    "Wall time spent rendering a sequence",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
	}, []string{"kind"})
)

// Outcome labels for RendersTotal.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeEmpty   = "empty"
	OutcomeFailed  = "failed"
)
