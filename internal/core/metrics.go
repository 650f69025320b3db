package core

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus collectors of the list service. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	sessions    prometheus.Gauge
	queries     *prometheus.CounterVec
	submissions *prometheus.CounterVec
	seeds       *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "orderlist",
			Name:      "sessions_active",
			Help:      "Number of open list sessions.",
		}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orderlist",
			Name:      "view_recomputes_total",
			Help:      "Number of view recomputes by trigger.",
		}, []string{"trigger"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orderlist",
			Name:      "submissions_total",
			Help:      "Number of add-order submissions by outcome.",
		}, []string{"outcome"}),
		seeds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orderlist",
			Name:      "seed_tasks_total",
			Help:      "Number of finished seed tasks by outcome.",
		}, []string{"outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.sessions, m.queries, m.submissions, m.seeds)
	}
	return m
}

// Recomputed implements ListObserver.
func (m *Metrics) Recomputed(trigger string, _ int) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(trigger).Inc()
}

// Submitted implements ListObserver.
func (m *Metrics) Submitted(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = MapError(err).Code
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

// SeedFinished counts a finished seed task.
func (m *Metrics) SeedFinished(outcome SeedOutcome) {
	if m == nil {
		return
	}
	m.seeds.WithLabelValues(string(outcome)).Inc()
}

func (m *Metrics) sessionOpened() {
	if m != nil {
		m.sessions.Inc()
	}
}

func (m *Metrics) sessionClosed() {
	if m != nil {
		m.sessions.Dec()
	}
}
