// Package cli wires observers, the resolver and the dispatcher into a single
// run for the command line front end.
package cli

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/weave/internal/build"
	"git.home.luguber.info/inful/weave/internal/buildtool"
	"git.home.luguber.info/inful/weave/internal/config"
	"git.home.luguber.info/inful/weave/internal/container"
	"git.home.luguber.info/inful/weave/internal/foundation"
	"git.home.luguber.info/inful/weave/internal/foundation/errors"
	"git.home.luguber.info/inful/weave/internal/logfields"
	"git.home.luguber.info/inful/weave/internal/metrics"
	"git.home.luguber.info/inful/weave/internal/observability"
	"git.home.luguber.info/inful/weave/internal/observe"
	"git.home.luguber.info/inful/weave/internal/resolve"
	"git.home.luguber.info/inful/weave/internal/util/sets"
)

// Run outcomes reported to the metrics recorder.
const (
	OutcomeSuccess  = "success"
	OutcomePartial  = "partial"
	OutcomeFailed   = "failed"
	OutcomeEmpty    = "empty"
	OutcomeCanceled = "canceled"
)

// CommandExecutor runs CLI commands.
type CommandExecutor interface {
	ExecuteBuild(ctx context.Context, req BuildRequest) foundation.Result[BuildResponse, error]
}

// BuildRequest describes a single weave run.
type BuildRequest struct {
	// Directory is the repository (ci mode) or scan root (all mode).
	Directory string
	// Config is fully loaded with CLI overrides applied.
	Config *config.Config
	DryRun bool
	// Output receives progress lines and build tool output.
	Output io.Writer
	// Color enables coloured progress lines.
	Color bool
}

// BuildResponse summarizes a finished run.
type BuildResponse struct {
	RunID              string
	Mode               config.Mode
	Root               string
	ChangedDirectories int
	Units              []buildtool.Identity
	Dispatch           *build.DispatchResult
	Duration           time.Duration
	// ObserveErr is an observer failure that was absorbed into "nothing to build".
	ObserveErr error
}

// EngineFactory creates the container engine for binary.
type EngineFactory func(binary string, logger *slog.Logger) buildtool.ImageBuilder

// ObserverFactory creates the observer for a mode.
type ObserverFactory func(mode config.Mode, directory string, logger *slog.Logger) (observe.Observer, error)

// DefaultCommandExecutor implements the CommandExecutor interface.
type DefaultCommandExecutor struct {
	logger          *slog.Logger
	engineFactory   EngineFactory
	observerFactory ObserverFactory
}

// NewCommandExecutor creates a command executor using the docker-compatible CLI
// engine and the mode-selected observer.
func NewCommandExecutor(logger *slog.Logger) *DefaultCommandExecutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultCommandExecutor{
		logger: logger,
		engineFactory: func(binary string, l *slog.Logger) buildtool.ImageBuilder {
			return container.New(binary, container.WithLogger(l))
		},
		observerFactory: func(mode config.Mode, directory string, l *slog.Logger) (observe.Observer, error) {
			return observe.ForMode(mode, directory, l)
		},
	}
}

// WithEngineFactory allows injecting a custom container engine (for testing).
func (e *DefaultCommandExecutor) WithEngineFactory(f EngineFactory) *DefaultCommandExecutor {
	e.engineFactory = f
	return e
}

// WithObserverFactory allows injecting a custom observer (for testing).
func (e *DefaultCommandExecutor) WithObserverFactory(f ObserverFactory) *DefaultCommandExecutor {
	e.observerFactory = f
	return e
}

// ExecuteBuild observes changed directories, resolves them to build units and
// dispatches the units. Without strict mode, observer and build failures are
// logged and the run still succeeds.
func (e *DefaultCommandExecutor) ExecuteBuild(ctx context.Context, req BuildRequest) foundation.Result[BuildResponse, error] {
	start := time.Now()
	cfg := req.Config
	if cfg == nil {
		cfg = config.Default()
	}

	runID := uuid.NewString()
	ctx = observability.WithRunID(ctx, runID)
	ctx = observability.WithMode(ctx, string(cfg.Mode))
	logger := observability.Logger(ctx, e.logger)

	recorder, finish := e.metricsFor(cfg, logger)
	resp := BuildResponse{RunID: runID, Mode: cfg.Mode}
	outcome := OutcomeFailed
	defer func() {
		recorder.IncRunOutcome(outcome)
		recorder.ObserveRunDuration(time.Since(start))
		finish()
	}()

	root, err := filepath.Abs(req.Directory)
	if err != nil {
		return foundation.Err[BuildResponse, error](errors.WrapError(err, errors.CategoryConfig, "invalid directory").
			WithContext("directory", req.Directory).
			Build())
	}
	resp.Root = root

	observer, err := e.observerFactory(cfg.Mode, root, logger)
	if err != nil {
		return foundation.Err[BuildResponse](err)
	}

	stageStart := time.Now()
	changed, err := observer.Observe(observability.WithStage(ctx, "observe"))
	recorder.ObserveStageDuration("observe", time.Since(stageStart))
	if err != nil {
		if cfg.Strict {
			return foundation.Err[BuildResponse](err)
		}
		logger.Warn("Change detection failed; treating as nothing to build", logfields.Root(root), logfields.Error(err))
		resp.ObserveErr = err
		changed = sets.New[string]()
	}
	resp.ChangedDirectories = changed.Len()
	recorder.SetChangedDirectories(changed.Len())
	logger.Info("Observed directories", logfields.Root(root), logfields.Count(changed.Len()))

	registry := buildtool.DefaultRegistry(buildtool.Options{
		Dockerfile: cfg.Container.Dockerfile,
		Engine:     e.engineFactory(cfg.Container.Engine, logger),
		Output:     req.Output,
		Logger:     logger,
	})

	stageStart = time.Now()
	resolveCtx := observability.WithStage(ctx, "resolve")
	units := resolve.New(registry, resolve.WithLogger(observability.Logger(resolveCtx, e.logger))).
		Resolve(resolveCtx, root, changed)
	recorder.ObserveStageDuration("resolve", time.Since(stageStart))
	for _, u := range units {
		resp.Units = append(resp.Units, u.Identity())
		recorder.IncResolvedUnit(string(u.Kind()))
	}
	logger.Info("Resolved build units", logfields.Count(len(units)))

	result := build.NewDispatcher(
		build.WithOutput(req.Output),
		build.WithRecorder(recorder),
		build.WithLogger(e.logger),
		build.WithDryRun(req.DryRun),
		build.WithColor(req.Color),
	).Dispatch(ctx, units)
	resp.Dispatch = result
	resp.Duration = time.Since(start)
	outcome = runOutcome(result)

	if cfg.Strict {
		if err := result.Err(); err != nil {
			return foundation.Err[BuildResponse](err)
		}
	}
	return foundation.Ok[BuildResponse, error](resp)
}

// metricsFor returns the recorder for a run and a function that exports the
// collected metrics once the run has finished.
func (e *DefaultCommandExecutor) metricsFor(cfg *config.Config, logger *slog.Logger) (metrics.Recorder, func()) {
	path := cfg.Metrics.Textfile
	if path == "" {
		return metrics.NoopRecorder{}, func() {}
	}
	reg := prom.NewRegistry()
	return metrics.NewPrometheusRecorder(reg), func() {
		if err := metrics.WriteTextfile(reg, path); err != nil {
			logger.Warn("Failed to write metrics textfile", slog.String("path", path), logfields.Error(err))
		}
	}
}

func runOutcome(r *build.DispatchResult) string {
	switch r.Status {
	case build.BuildStatusSuccess:
		return OutcomeSuccess
	case build.BuildStatusSkipped:
		return OutcomeEmpty
	case build.BuildStatusCancelled:
		return OutcomeCanceled
	}
	if r.Count(build.BuildStatusSuccess) > 0 {
		return OutcomePartial
	}
	return OutcomeFailed
}
