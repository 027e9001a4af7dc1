package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "doclinks"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	runDuration  prom.Histogram
	filesScanned prom.Gauge
	links        *prom.CounterVec
	runOutcome   *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a full link validation run",
			Buckets:   prom.DefBuckets,
		}),
		filesScanned: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "files_scanned",
			Help:      "Markdown files scanned in the last run",
		}),
		links: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "links_total",
			Help:      "Link occurrences by classification",
		}, []string{"status"}),
		runOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "run_outcomes_total",
			Help:      "Validation runs by final outcome",
		}, []string{"outcome"}),
	}
	reg.MustRegister(pr.runDuration, pr.filesScanned, pr.links, pr.runOutcome)
	return pr
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetFilesScanned(n int) {
	if p == nil {
		return
	}
	p.filesScanned.Set(float64(n))
}

func (p *PrometheusRecorder) AddLinkOutcomes(status string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.links.WithLabelValues(status).Add(float64(n))
}

func (p *PrometheusRecorder) IncRunOutcome(outcome RunOutcome) {
	if p == nil {
		return
	}
	p.runOutcome.WithLabelValues(string(outcome)).Inc()
}
