package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "weave"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration *prom.HistogramVec
	runDuration   prom.Histogram
	changedDirs   prom.Gauge
	resolvedUnits *prom.CounterVec
	unitDuration  *prom.HistogramVec
	unitResults   *prom.CounterVec
	runOutcome    *prom.CounterVec
}

// NewPrometheusRecorder constructs the run metrics and registers them on reg.
// Each registry takes one recorder; a second registration panics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "stage_duration_seconds",
		Help:      "Duration of run stages (observe, resolve, dispatch)",
		Buckets:   prom.DefBuckets,
	}, []string{"stage"})
	pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Total run duration",
		Buckets:   prom.DefBuckets,
	})
	pr.changedDirs = prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "changed_directories",
		Help:      "Directories reported by the observer in the last run",
	})
	pr.resolvedUnits = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "resolved_units_total",
		Help:      "Build units resolved by kind",
	}, []string{"kind"})
	pr.unitDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "unit_build_duration_seconds",
		Help:      "Duration of individual unit builds",
		Buckets:   prom.ExponentialBuckets(0.5, 2, 12),
	}, []string{"kind", "result"})
	pr.unitResults = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "unit_build_results_total",
		Help:      "Unit build results by kind and outcome",
	}, []string{"kind", "result"})
	pr.runOutcome = prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "run_outcomes_total",
		Help:      "Run outcomes by final status",
	}, []string{"outcome"})
	reg.MustRegister(pr.stageDuration, pr.runDuration, pr.changedDirs, pr.resolvedUnits, pr.unitDuration, pr.unitResults, pr.runOutcome)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetChangedDirectories(n int) {
	if p == nil || p.changedDirs == nil {
		return
	}
	p.changedDirs.Set(float64(n))
}

func (p *PrometheusRecorder) IncResolvedUnit(kind string) {
	if p == nil || p.resolvedUnits == nil {
		return
	}
	p.resolvedUnits.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) ObserveUnitBuild(kind string, d time.Duration, result ResultLabel) {
	if p == nil || p.unitDuration == nil {
		return
	}
	p.unitDuration.WithLabelValues(kind, string(result)).Observe(d.Seconds())
	p.unitResults.WithLabelValues(kind, string(result)).Inc()
}

func (p *PrometheusRecorder) IncRunOutcome(outcome string) {
	if p == nil || p.runOutcome == nil {
		return
	}
	p.runOutcome.WithLabelValues(outcome).Inc()
}
