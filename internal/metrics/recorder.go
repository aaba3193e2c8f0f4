package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// BuildOutcomeLabel is the final status of a site build.
type BuildOutcomeLabel string

const (
	BuildOutcomeSuccess  BuildOutcomeLabel = "success"
	BuildOutcomeFailed   BuildOutcomeLabel = "failed"
	BuildOutcomeCanceled BuildOutcomeLabel = "canceled"
)

// Recorder defines observability hooks for site builds and per-page stages.
// All methods must be safe to call concurrently from page workers.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	ObservePageDuration(d time.Duration)
	IncPageResult(result ResultLabel)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	SetBuildConcurrency(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) ObservePageDuration(time.Duration)          {}
func (NoopRecorder) IncPageResult(ResultLabel)                  {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)          {}
func (NoopRecorder) SetBuildConcurrency(int)                    {}

// ResultFor maps an error to a result label.
func ResultFor(err error, canceled bool) ResultLabel {
	switch {
	case err == nil:
		return ResultSuccess
	case canceled:
		return ResultCanceled
	default:
		return ResultFailed
	}
}

// TimeStage runs fn and records its duration and result under stage.
func TimeStage(r Recorder, stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	r.ObserveStageDuration(stage, time.Since(start))
	r.IncStageResult(stage, ResultFor(err, false))
	return err
}
