// Package metrics holds the Prometheus collectors for the live update
// subsystem. A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "todo"

type Metrics struct {
	published       *prometheus.CounterVec
	publishFailures prometheus.Counter
	dropped         prometheus.Counter
	sessions        prometheus.Gauge
	pings           prometheus.Counter
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		published: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_published_total",
			Help:      "Mutations handed to the bus, by kind.",
		}, []string{"kind"}),
		publishFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutation_publish_failures_total",
			Help:      "Mutations that could not be published because the bus was closed.",
		}),
		dropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_events_dropped_total",
			Help:      "Events dropped for subscribers whose backlog was full.",
		}),
		sessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stream_sessions",
			Help:      "Live update sessions currently open.",
		}),
		pings: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_pings_total",
			Help:      "Keep-alive pings sent to live update clients.",
		}),
	}
}

func (m *Metrics) Published(kind string) {
	if m == nil {
		return
	}
	m.published.WithLabelValues(kind).Inc()
}

func (m *Metrics) PublishFailed() {
	if m == nil {
		return
	}
	m.publishFailures.Inc()
}

func (m *Metrics) Dropped(n uint64) {
	if m == nil || n == 0 {
		return
	}
	m.dropped.Add(float64(n))
}

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.sessions.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.sessions.Dec()
}

func (m *Metrics) Ping() {
	if m == nil {
		return
	}
	m.pings.Inc()
}
