// Package metrics provides optional Prometheus instrumentation for a
// dbvt.Manager (§12), grounded on this corpus's promauto-based Metrics
// struct. Wiring it in is purely additive: a Manager built without
// WithMetrics behaves identically, just unobserved.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every counter/gauge/histogram dbvt.Manager reports into.
type Metrics struct {
	Nodes                prometheus.Gauge
	RegisterTotalCount   prometheus.Counter
	UnregisterTotalCount prometheus.Counter
	UpdateTotalCount     prometheus.Counter
	RebalanceSeconds     *prometheus.HistogramVec
	TraversalPairs       prometheus.Counter
}

// New registers a fresh set of metrics with the default Prometheus
// registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer is New, but registering against reg instead of the
// global default registerer. Tests use this with a throwaway
// prometheus.NewRegistry() so repeated calls don't collide on metric
// names.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Nodes: f.NewGauge(prometheus.GaugeOpts{
			Name: "dbvt_tree_nodes",
			Help: "Current number of leaves held by the broad-phase tree.",
		}),
		RegisterTotalCount: f.NewCounter(prometheus.CounterOpts{
			Name: "dbvt_register_total",
			Help: "Total number of objects registered with the manager.",
		}),
		UnregisterTotalCount: f.NewCounter(prometheus.CounterOpts{
			Name: "dbvt_unregister_total",
			Help: "Total number of objects unregistered from the manager.",
		}),
		UpdateTotalCount: f.NewCounter(prometheus.CounterOpts{
			Name: "dbvt_update_total",
			Help: "Total number of leaf bv updates applied.",
		}),
		RebalanceSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Name: "dbvt_rebalance_duration_seconds",
			Help: "Duration of a Setup rebalance pass, labeled by strategy.",
		}, []string{"strategy"}),
		TraversalPairs: f.NewCounter(prometheus.CounterOpts{
			Name: "dbvt_traversal_pairs_total",
			Help: "Total number of candidate pairs visited by pairwise traversals.",
		}),
	}
}

// NodeCount implements the recorder surface dbvt.Manager expects.
func (m *Metrics) NodeCount(n int) { m.Nodes.Set(float64(n)) }

// RegisterTotal increments the register counter.
func (m *Metrics) RegisterTotal() { m.RegisterTotalCount.Inc() }

// UnregisterTotal increments the unregister counter.
func (m *Metrics) UnregisterTotal() { m.UnregisterTotalCount.Inc() }

// UpdateTotal increments the update counter.
func (m *Metrics) UpdateTotal() { m.UpdateTotalCount.Inc() }

// RebalanceDuration records a Setup pass duration, labeled by strategy
// ("incremental" or "topdown").
func (m *Metrics) RebalanceDuration(strategy string, seconds float64) {
	m.RebalanceSeconds.WithLabelValues(strategy).Observe(seconds)
}

// TraversalPairsTotal adds n to the candidate-pair counter.
func (m *Metrics) TraversalPairsTotal(n int) {
	m.TraversalPairs.Add(float64(n))
}
