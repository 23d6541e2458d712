package http

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the server's Prometheus collectors on a private registry so
// multiple servers (and tests) never collide on the global one.
type metrics struct {
	registry     *prometheus.Registry
	generations  *prometheus.CounterVec
	duration     prometheus.Histogram
	entropyRatio prometheus.Histogram
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "keyloom_generations_total",
				Help: "Total number of key generation requests",
			},
			[]string{"status"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "keyloom_generation_duration_seconds",
				Help:    "Duration of key generations",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
		),
		entropyRatio: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "keyloom_entropy_ratio",
				Help:    "Normalized entropy ratio of scored keys",
				Buckets: prometheus.LinearBuckets(0, 0.1, 11),
			},
		),
	}

	m.registry.MustRegister(m.generations, m.duration, m.entropyRatio)
	return m
}
