package controlplane

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nimbly/jvmprobe/pkg/proberuntime"
)

// hitCollector is a prometheus.Collector that mirrors the Hit Table on
// every scrape instead of maintaining its own counter per key: probe keys
// are created dynamically as the target application runs, so there is no
// fixed metric set to register up front.
type hitCollector struct {
	runtime     *proberuntime.Runtime
	countDesc   *prometheus.Desc
	lastHitDesc *prometheus.Desc
}

// NewCollectorRegistry builds a dedicated prometheus.Registry carrying
// only the hit-table mirror, so /metrics never leaks the process-wide
// default registry's own self-metrics alongside probe data.
func NewCollectorRegistry(runtime *proberuntime.Runtime) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(&hitCollector{
		runtime: runtime,
		countDesc: prometheus.NewDesc(
			"jvmprobe_hit_count",
			"Total hits recorded for a probe key since the last reset.",
			[]string{"key"}, nil,
		),
		lastHitDesc: prometheus.NewDesc(
			"jvmprobe_last_hit_epoch_ms",
			"Epoch milliseconds of the most recent hit for a probe key.",
			[]string{"key"}, nil,
		),
	})
	return reg
}

func (c *hitCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.countDesc
	ch <- c.lastHitDesc
}

func (c *hitCollector) Collect(ch chan<- prometheus.Metric) {
	c.runtime.Hits().Range(func(key string, count uint64, lastHitEpochMs int64) {
		ch <- prometheus.MustNewConstMetric(c.countDesc, prometheus.CounterValue, float64(count), key)
		ch <- prometheus.MustNewConstMetric(c.lastHitDesc, prometheus.GaugeValue, float64(lastHitEpochMs), key)
	})
}
