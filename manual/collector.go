// Copyright 2025 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package manual

import "github.com/prometheus/client_golang/prometheus"

// Collector exports the Metrics of an allocator to Prometheus.
type Collector struct {
	provider MetricsProvider

	inUse    *prometheus.Desc
	total    *prometheus.Desc
	allocs   *prometheus.Desc
	failures *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns a Collector for the given provider. Metric names are
// prefixed with namespace.
func NewCollector(namespace string, provider MetricsProvider) *Collector {
	labels := []string{"purpose"}
	return &Collector{
		provider: provider,
		inUse: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "manual", "inuse_bytes"),
			"Bytes currently allocated.", labels, nil),
		total: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "manual", "allocated_bytes_total"),
			"Cumulative bytes allocated.", labels, nil),
		allocs: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "manual", "allocs_total"),
			"Cumulative number of successful allocations.", labels, nil),
		failures: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "manual", "alloc_failures_total"),
			"Cumulative number of refused allocations.", labels, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.inUse
	ch <- c.total
	ch <- c.allocs
	ch <- c.failures
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	m := c.provider.Metrics()
	for p := Purpose(1); p < NumPurposes; p++ {
		name := p.String()
		ch <- prometheus.MustNewConstMetric(c.inUse, prometheus.GaugeValue, float64(m[p].InUseBytes), name)
		ch <- prometheus.MustNewConstMetric(c.total, prometheus.CounterValue, float64(m[p].TotalBytes), name)
		ch <- prometheus.MustNewConstMetric(c.allocs, prometheus.CounterValue, float64(m[p].Allocs), name)
		ch <- prometheus.MustNewConstMetric(c.failures, prometheus.CounterValue, float64(m[p].Failures), name)
	}
}
