package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docsite"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once             sync.Once
	stageDuration    *prom.HistogramVec
	stageResults     *prom.CounterVec
	pageDuration     prom.Histogram
	pageResults      *prom.CounterVec
	buildDuration    prom.Histogram
	buildOutcome     *prom.CounterVec
	buildConcurrency prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual page generation stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"})
		pr.pageDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "page_duration_seconds",
			Help:      "Time to generate and write a single page",
			Buckets:   prom.DefBuckets,
		})
		pr.pageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_total",
			Help:      "Generated pages by result",
		}, []string{"result"})
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		pr.buildConcurrency = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "build_concurrency",
			Help:      "Page worker count of the last build",
		})
		reg.MustRegister(pr.stageDuration, pr.stageResults, pr.pageDuration, pr.pageResults,
			pr.buildDuration, pr.buildOutcome, pr.buildConcurrency)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) ObservePageDuration(d time.Duration) {
	if p == nil || p.pageDuration == nil {
		return
	}
	p.pageDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPageResult(result ResultLabel) {
	if p == nil || p.pageResults == nil {
		return
	}
	p.pageResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetBuildConcurrency(n int) {
	if p == nil || p.buildConcurrency == nil {
		return
	}
	p.buildConcurrency.Set(float64(n))
}
