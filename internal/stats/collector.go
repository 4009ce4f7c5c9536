package stats

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector adapts a Registry to prometheus.Collector so a host process
// that already scrapes a Prometheus registry (as rclone and moby do) can
// expose the same counters Render prints at teardown, without the hot
// path taking on a Prometheus dependency of its own: Collect only reads
// Snapshot.
type Collector struct {
	reg *Registry

	ops      *prometheus.Desc
	bytes    *prometheus.Desc
	errors   *prometheus.Desc
	bypasses *prometheus.Desc
}

// NewCollector wraps reg for Prometheus registration.
func NewCollector(reg *Registry) *Collector {
	labels := []string{"category", "op"}
	return &Collector{
		reg:      reg,
		ops:      prometheus.NewDesc("padll_ops_total", "Operations submitted for enforcement.", labels, nil),
		bytes:    prometheus.NewDesc("padll_bytes_total", "Bytes transferred by successful operations.", labels, nil),
		errors:   prometheus.NewDesc("padll_errors_total", "Operations that failed: native errors, resolver failures and policy engine submission failures.", labels, nil),
		bypasses: prometheus.NewDesc("padll_bypasses_total", "Operations that took the passthrough path.", labels, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.ops
	ch <- c.bytes
	ch <- c.errors
	ch <- c.bypasses
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, e := range c.reg.Snapshot() {
		cat, op := e.Category.String(), e.Op
		ch <- prometheus.MustNewConstMetric(c.ops, prometheus.CounterValue, float64(e.Counter.Ops), cat, op)
		ch <- prometheus.MustNewConstMetric(c.bytes, prometheus.CounterValue, float64(e.Counter.Bytes), cat, op)
		ch <- prometheus.MustNewConstMetric(c.errors, prometheus.CounterValue, float64(e.Counter.Errors), cat, op)
		ch <- prometheus.MustNewConstMetric(c.bypasses, prometheus.CounterValue, float64(e.Counter.Bypasses), cat, op)
	}
}
