package metrics

import (
	"testing"
	"time"
)

var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)

func TestNoopRecorderAcceptsAllCalls(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("resolve", time.Millisecond)
	r.ObserveRunDuration(time.Second)
	r.SetChangedDirectories(4)
	r.IncResolvedUnit("container")
	r.ObserveUnitBuild("container", time.Second, ResultFailed)
	r.IncRunOutcome("partial")
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var p *PrometheusRecorder
	p.ObserveStageDuration("resolve", time.Millisecond)
	p.ObserveUnitBuild("pipeline", time.Second, ResultSuccess)
	p.IncRunOutcome("success")
}
