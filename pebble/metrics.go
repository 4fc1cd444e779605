// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "counter_db"
	metricsInterval  = 10 * time.Second
)

var latencyBuckets = prometheus.ExponentialBuckets(float64(time.Microsecond), 10, 7)

// sampled gauges are refreshed from [pebble.Metrics] every [metricsInterval].
var sampled = []struct {
	name string
	help string
	get  func(*pebble.Metrics) float64
}{
	{"tombstones", "approximate count of internal tombstones", func(m *pebble.Metrics) float64 { return float64(m.Keys.TombstoneCount) }},
	{"obsolete_table_bytes", "bytes in tables no longer referenced", func(m *pebble.Metrics) float64 { return float64(m.Table.ObsoleteSize) }},
	{"obsolete_wal_bytes", "bytes in WAL files no longer needed", func(m *pebble.Metrics) float64 { return float64(m.WAL.ObsoletePhysicalSize) }},
	{"disk_usage_bytes", "total bytes used on disk", func(m *pebble.Metrics) float64 { return float64(m.DiskSpaceUsage()) }},
}

type metrics struct {
	stallStart time.Time
	stalls     prometheus.Histogram

	reads  prometheus.Histogram
	writes *prometheus.CounterVec

	compactions       *prometheus.CounterVec
	activeCompactions prometheus.Gauge

	gauges []prometheus.Gauge
}

func newMetrics() (*prometheus.Registry, *metrics, error) {
	r := prometheus.NewRegistry()
	m := &metrics{
		stalls: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "write_stall_ns",
			Help:      "time writes spent stalled on compaction",
			Buckets:   latencyBuckets,
		}),
		reads: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "read_ns",
			Help:      "latency of point reads",
			Buckets:   latencyBuckets,
		}),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "writes",
			Help:      "number of records written, by kind",
		}, []string{"kind"}),
		compactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "compactions",
			Help:      "number of compactions started, by level",
		}, []string{"level"}),
		activeCompactions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "active_compactions",
			Help:      "number of running compactions",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.stalls),
		r.Register(m.reads),
		r.Register(m.writes),
		r.Register(m.compactions),
		r.Register(m.activeCompactions),
	)
	for _, s := range sampled {
		g := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      s.name,
			Help:      s.help,
		})
		m.gauges = append(m.gauges, g)
		errs.Add(r.Register(g))
	}
	return r, m, errs.Err
}

func (db *Database) onCompactionBegin(info pebble.CompactionInfo) {
	db.metrics.activeCompactions.Inc()
	level := "l1+"
	if len(info.Input) > 0 && info.Input[0].Level == 0 {
		level = "l0"
	}
	db.metrics.compactions.WithLabelValues(level).Inc()
}

func (db *Database) onCompactionEnd(pebble.CompactionInfo) {
	db.metrics.activeCompactions.Dec()
}

func (db *Database) onWriteStallBegin(pebble.WriteStallBeginInfo) {
	db.metrics.stallStart = time.Now()
}

func (db *Database) onWriteStallEnd() {
	db.metrics.stalls.Observe(float64(time.Since(db.metrics.stallStart)))
}

func (db *Database) sample() {
	snapshot := db.db.Metrics()
	for i, s := range sampled {
		db.metrics.gauges[i].Set(s.get(snapshot))
	}
}

func (db *Database) collectMetrics() {
	t := time.NewTicker(metricsInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			db.sample()
		case <-db.closing:
			return
		}
	}
}
