package build

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fatih/color"

	"git.home.luguber.info/inful/weave/internal/buildtool"
	"git.home.luguber.info/inful/weave/internal/logfields"
	"git.home.luguber.info/inful/weave/internal/metrics"
	"git.home.luguber.info/inful/weave/internal/observability"
)

// Dispatcher runs build units sequentially.
type Dispatcher struct {
	out      io.Writer
	recorder metrics.Recorder
	logger   *slog.Logger
	dryRun   bool
	colored  bool

	info *color.Color
	ok   *color.Color
	fail *color.Color
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithOutput sets where progress lines are written.
func WithOutput(w io.Writer) Option {
	return func(d *Dispatcher) {
		if w != nil {
			d.out = w
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(d *Dispatcher) {
		if r != nil {
			d.recorder = r
		}
	}
}

// WithLogger sets the dispatcher's logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithDryRun lists units without building them.
func WithDryRun(dryRun bool) Option {
	return func(d *Dispatcher) { d.dryRun = dryRun }
}

// WithColor enables ANSI colours on progress lines.
func WithColor(enabled bool) Option {
	return func(d *Dispatcher) { d.colored = enabled }
}

// NewDispatcher creates a dispatcher. By default progress is discarded and no
// metrics are recorded.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		out:      io.Discard,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.info = d.palette(color.FgCyan)
	d.ok = d.palette(color.FgGreen)
	d.fail = d.palette(color.FgRed, color.Bold)
	return d
}

// Dispatch builds every unit in order. Unit failures are recorded in the result;
// dispatch always continues with the next unit. Once ctx is done the remaining
// units are marked cancelled without running.
func (d *Dispatcher) Dispatch(ctx context.Context, units []buildtool.Unit) *DispatchResult {
	start := time.Now()
	ctx = observability.WithStage(ctx, "dispatch")
	logger := observability.Logger(ctx, d.logger)

	result := &DispatchResult{
		StartTime: start,
		DryRun:    d.dryRun,
		Outcomes:  make([]UnitOutcome, 0, len(units)),
	}

	for _, unit := range units {
		result.Outcomes = append(result.Outcomes, d.dispatchOne(ctx, logger, unit))
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(start)
	result.Status = overallStatus(result)
	d.recorder.ObserveStageDuration("dispatch", result.Duration)

	logger.Info("Dispatch finished",
		logfields.Status(string(result.Status)),
		logfields.Count(len(units)),
		slog.Int("failed", result.Count(BuildStatusFailed)),
		logfields.Duration(result.Duration))
	return result
}

func (d *Dispatcher) dispatchOne(ctx context.Context, logger *slog.Logger, unit buildtool.Unit) UnitOutcome {
	kind := string(unit.Kind())
	dir := unit.Directory()
	outcome := UnitOutcome{Unit: unit}
	unitLogger := logger.With(logfields.Kind(kind), logfields.Directory(dir))

	if err := ctx.Err(); err != nil {
		outcome.Status = BuildStatusCancelled
		outcome.Err = err
		d.recorder.ObserveUnitBuild(kind, 0, metrics.ResultCanceled)
		unitLogger.Warn("Build cancelled before start")
		return outcome
	}

	if d.dryRun {
		_, _ = d.info.Fprintf(d.out, "Would build %s in %s\n", kind, dir)
		outcome.Status = BuildStatusSkipped
		d.recorder.ObserveUnitBuild(kind, 0, metrics.ResultSkipped)
		return outcome
	}

	_, _ = d.info.Fprintf(d.out, "Building %s in %s\n", kind, dir)
	unitLogger.Info("Building unit")

	start := time.Now()
	res, err := unit.Build(ctx)
	outcome.Duration = time.Since(start)
	outcome.Note = res.Note

	if err != nil {
		outcome.Status = BuildStatusFailed
		outcome.Err = err
		_, _ = d.fail.Fprintf(d.out, "Build failed: %v\n", err)
		unitLogger.Error("Build failed", logfields.Error(err), logfields.Duration(outcome.Duration))
		d.recorder.ObserveUnitBuild(kind, outcome.Duration, metrics.ResultFailed)
		return outcome
	}

	outcome.Status = BuildStatusSuccess
	if res.Note != "" {
		_, _ = d.ok.Fprintf(d.out, "Build complete (%s)\n", res.Note)
	} else {
		_, _ = d.ok.Fprintln(d.out, "Build complete")
	}
	unitLogger.Info("Build complete", logfields.Duration(outcome.Duration))
	d.recorder.ObserveUnitBuild(kind, outcome.Duration, metrics.ResultSuccess)
	return outcome
}

func (d *Dispatcher) palette(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if d.colored {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func overallStatus(r *DispatchResult) BuildStatus {
	switch {
	case r.Count(BuildStatusFailed) > 0:
		return BuildStatusFailed
	case r.Count(BuildStatusCancelled) > 0:
		return BuildStatusCancelled
	case r.Count(BuildStatusSuccess) == 0:
		return BuildStatusSkipped
	default:
		return BuildStatusSuccess
	}
}
