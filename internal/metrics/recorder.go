package metrics

import "time"

// ResultLabel enumerates unit build result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultSkipped  ResultLabel = "skipped"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for a run. Implementations may forward to
// Prometheus or anything else.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	SetChangedDirectories(n int)
	IncResolvedUnit(kind string)
	ObserveUnitBuild(kind string, d time.Duration, result ResultLabel)
	IncRunOutcome(outcome string) // outcome: success|partial|failed|empty|canceled
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration)          {}
func (NoopRecorder) ObserveRunDuration(time.Duration)                    {}
func (NoopRecorder) SetChangedDirectories(int)                           {}
func (NoopRecorder) IncResolvedUnit(string)                              {}
func (NoopRecorder) ObserveUnitBuild(string, time.Duration, ResultLabel) {}
func (NoopRecorder) IncRunOutcome(string)                                {}
