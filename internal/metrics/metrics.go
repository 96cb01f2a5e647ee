// Package metrics exposes tag tree instrumentation to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tourtags/internal/application/tagtree"
	"tourtags/internal/domain"
)

// Collector implements tagtree.Observer on a private registry.
type Collector struct {
	registry *prometheus.Registry

	fetches       *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	patches       *prometheus.CounterVec
	liveNodes     prometheus.Gauge
}

var _ tagtree.Observer = (*Collector)(nil)

// NewCollector registers the tag tree metrics on a fresh registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tourtags",
			Name:      "tree_fetch_total",
			Help:      "Child fetches by node variant and outcome",
		}, []string{"variant", "outcome"}),
		fetchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tourtags",
			Name:      "tree_fetch_duration_seconds",
			Help:      "Duration of child fetches by node variant",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"variant"}),
		patches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tourtags",
			Name:      "tree_events_applied_total",
			Help:      "Data-layer events applied to the tree by kind",
		}, []string{"event"}),
		liveNodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "tourtags",
			Name:      "tree_live_nodes",
			Help:      "Nodes currently materialized in the tree arena",
		}),
	}
}

// FetchDone records one child query.
func (c *Collector) FetchDone(v domain.Variant, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.fetches.WithLabelValues(v.String(), outcome).Inc()
	c.fetchDuration.WithLabelValues(v.String()).Observe(d.Seconds())
}

// Patched counts an applied event.
func (c *Collector) Patched(event string) {
	c.patches.WithLabelValues(event).Inc()
}

// NodesLive sets the arena size gauge.
func (c *Collector) NodesLive(n int) {
	c.liveNodes.Set(float64(n))
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
