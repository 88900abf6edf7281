// Package prommetrics exports slist operation metrics to Prometheus.
package prommetrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/slist"
	"github.com/hupe1980/slist/alloc"
)

const namespace = "slist"

// Collector implements slist.MetricsCollector on top of Prometheus vectors.
type Collector struct {
	reg prometheus.Registerer

	opLatency     *prometheus.HistogramVec
	ops           *prometheus.CounterVec
	nodesReleased prometheus.Counter
}

// New creates a Collector and registers its metrics with reg.
// A nil reg registers with prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		reg: reg,
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_latency_seconds",
			Help:      "Latency of list operations",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 10),
		}, []string{"op", "status"}),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "List operations by outcome",
		}, []string{"op", "status"}),
		nodesReleased: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "destroy_nodes_released_total",
			Help:      "Nodes released by list teardown",
		}),
	}

	if err := registerAll(reg, []prometheus.Collector{c.opLatency, c.ops, c.nodesReleased}); err != nil {
		return nil, err
	}
	return c, nil
}

func status(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, slist.ErrNotFound):
		return "miss"
	case errors.Is(err, slist.ErrOutOfRange):
		return "out_of_range"
	case errors.Is(err, slist.ErrAllocationFailed):
		return "alloc_failed"
	default:
		return "error"
	}
}

func (c *Collector) observe(op string, d time.Duration, err error) {
	s := status(err)
	c.opLatency.WithLabelValues(op, s).Observe(d.Seconds())
	c.ops.WithLabelValues(op, s).Inc()
}

// RecordInsert implements slist.MetricsCollector.
func (c *Collector) RecordInsert(d time.Duration, err error) {
	c.observe("insert", d, err)
}

// RecordRemove implements slist.MetricsCollector.
func (c *Collector) RecordRemove(d time.Duration, err error) {
	c.observe("remove", d, err)
}

// RecordFind implements slist.MetricsCollector.
func (c *Collector) RecordFind(d time.Duration, err error) {
	c.observe("find", d, err)
}

// RecordIterator implements slist.MetricsCollector.
func (c *Collector) RecordIterator(err error) {
	c.ops.WithLabelValues("iterator", status(err)).Inc()
}

// RecordDestroy implements slist.MetricsCollector.
func (c *Collector) RecordDestroy(nodes int, err error) {
	c.ops.WithLabelValues("destroy", status(err)).Inc()
	c.nodesReleased.Add(float64(nodes))
}

// WatchAllocator exports live block and byte gauges for a Counting
// allocator, labelled with name.
func (c *Collector) WatchAllocator(name string, a *alloc.Counting) error {
	labels := prometheus.Labels{"allocator": name}

	gauges := []prometheus.Collector{
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "allocator",
			Name:        "live_blocks",
			Help:        "Blocks allocated and not yet released",
			ConstLabels: labels,
		}, func() float64 { return float64(a.Live()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "allocator",
			Name:        "live_bytes",
			Help:        "Bytes allocated and not yet released",
			ConstLabels: labels,
		}, func() float64 { return float64(a.Stats().LiveBytes) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "allocator",
			Name:        "allocation_failures_total",
			Help:        "Allocate calls that failed",
			ConstLabels: labels,
		}, func() float64 { return float64(a.Stats().AllocFailures) }),
	}

	return registerAll(c.reg, gauges)
}

// registerAll registers every collector, or none: on failure the collectors
// registered so far are unregistered again.
func registerAll(reg prometheus.Registerer, cols []prometheus.Collector) error {
	for i, col := range cols {
		if err := reg.Register(col); err != nil {
			for _, done := range cols[:i] {
				reg.Unregister(done)
			}
			return err
		}
	}
	return nil
}

var _ slist.MetricsCollector = (*Collector)(nil)
