package metrics

import (
	"net/http"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

// Snapshot is a point-in-time view of the shared counter, in the counter's
// native millisecond unit.
type Snapshot struct {
	AttentionMS  float64
	FFNMS        float64
	TotalLayerMS float64
	Count        int
}

// Source provides snapshots of the accumulated layer timings on demand.
type Source interface {
	Snapshot() Snapshot
}

// CounterCollector exposes the shared counter as Prometheus metrics. The
// backing file is re-read on every scrape, so the collector observes merges
// made by any process on the host, not just its own.
type CounterCollector struct {
	source Source

	attention  *prom.Desc
	ffn        *prom.Desc
	totalLayer *prom.Desc
	samples    *prom.Desc
}

// NewCounterCollector creates a collector reading from the given source.
func NewCounterCollector(source Source) *CounterCollector {
	return &CounterCollector{
		source: source,
		attention: prom.NewDesc(
			"layertiming_attention_ms_total",
			"Accumulated attention time across all recorded layer forward passes",
			nil, nil,
		),
		ffn: prom.NewDesc(
			"layertiming_ffn_ms_total",
			"Accumulated feed-forward time across all recorded layer forward passes",
			nil, nil,
		),
		totalLayer: prom.NewDesc(
			"layertiming_total_layer_ms_total",
			"Accumulated whole-layer time across all recorded layer forward passes",
			nil, nil,
		),
		samples: prom.NewDesc(
			"layertiming_samples",
			"Number of layer forward passes merged into the shared counter",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *CounterCollector) Describe(ch chan<- *prom.Desc) {
	ch <- c.attention
	ch <- c.ffn
	ch <- c.totalLayer
	ch <- c.samples
}

// Collect implements prometheus.Collector. Values are gauges rather than
// counters: an operator clearing the shared file legitimately resets them.
func (c *CounterCollector) Collect(ch chan<- prom.Metric) {
	snap := c.source.Snapshot()
	ch <- prom.MustNewConstMetric(c.attention, prom.GaugeValue, snap.AttentionMS)
	ch <- prom.MustNewConstMetric(c.ffn, prom.GaugeValue, snap.FFNMS)
	ch <- prom.MustNewConstMetric(c.totalLayer, prom.GaugeValue, snap.TotalLayerMS)
	ch <- prom.MustNewConstMetric(c.samples, prom.GaugeValue, float64(snap.Count))
}

// PrometheusRecorder implements Recorder using per-sample histograms for hosts
// that want in-process latency distributions alongside the shared counter.
type PrometheusRecorder struct {
	once       sync.Once
	attention  prom.Histogram
	ffn        prom.Histogram
	totalLayer prom.Histogram
}

// NewPrometheusRecorder constructs and registers histogram metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.attention = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "layertiming",
			Name:      "attention_duration_seconds",
			Help:      "Attention computation duration per layer forward pass",
			Buckets:   prom.DefBuckets,
		})
		pr.ffn = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "layertiming",
			Name:      "ffn_duration_seconds",
			Help:      "Feed-forward computation duration per layer forward pass",
			Buckets:   prom.DefBuckets,
		})
		pr.totalLayer = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "layertiming",
			Name:      "total_layer_duration_seconds",
			Help:      "Whole-layer duration per layer forward pass",
			Buckets:   prom.DefBuckets,
		})
		reg.MustRegister(pr.attention, pr.ffn, pr.totalLayer)
	})
	return pr
}

// ObserveLayerSample implements Recorder.
func (p *PrometheusRecorder) ObserveLayerSample(attention, ffn, totalLayer time.Duration) {
	if p == nil || p.attention == nil {
		return
	}
	p.attention.Observe(attention.Seconds())
	p.ffn.Observe(ffn.Seconds())
	p.totalLayer.Observe(totalLayer.Seconds())
}

// HTTPHandler returns an http.Handler that serves Prometheus metrics for the
// provided registry.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
