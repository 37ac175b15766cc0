package container

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/weave/internal/foundation/errors"
	"git.home.luguber.info/inful/weave/internal/logfields"
)

// ImageTag is the tag applied to every image built by weave.
const ImageTag = "weave_build"

// DefaultBinary is the engine used when none is configured.
const DefaultBinary = "docker"

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// BuildOptions describes a single image build.
	BuildOptions struct {
		// ContextDir is the build context and the directory holding Dockerfile.
		ContextDir string
		// Dockerfile is the file name inside ContextDir.
		Dockerfile string
		// Tag defaults to ImageTag.
		Tag string
		// Stdout receives the engine's build output; nil discards it.
		Stdout io.Writer
	}

	// Engine runs image builds through a container engine binary.
	Engine struct {
		binary      string
		execCommand ExecCommandFunc
		logger      *slog.Logger
	}

	// Option configures an Engine.
	Option func(*Engine)
)

// WithExecCommand replaces process creation, mainly for tests.
func WithExecCommand(fn ExecCommandFunc) Option {
	return func(e *Engine) {
		if fn != nil {
			e.execCommand = fn
		}
	}
}

// WithLogger sets the logger used to report engine failures.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an engine for binary. An empty binary selects DefaultBinary.
func New(binary string, opts ...Option) *Engine {
	if strings.TrimSpace(binary) == "" {
		binary = DefaultBinary
	}
	e := &Engine{
		binary:      binary,
		execCommand: exec.CommandContext,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Binary returns the engine executable.
func (e *Engine) Binary() string { return e.binary }

// BuildArgs returns the argument list for an image build without running it.
func (e *Engine) BuildArgs(opts BuildOptions) []string {
	tag := opts.Tag
	if tag == "" {
		tag = ImageTag
	}
	return []string{
		"image", "build",
		"-f", filepath.Join(opts.ContextDir, opts.Dockerfile),
		"-t", tag,
		opts.ContextDir,
	}
}

// Build runs the engine and waits for it to exit. A non-zero exit or a failure
// to start the engine is returned as a build error carrying the captured stderr.
func (e *Engine) Build(ctx context.Context, opts BuildOptions) error {
	if opts.ContextDir == "" || opts.Dockerfile == "" {
		return errors.ValidationError("container build requires a context directory and a Dockerfile").
			WithContext("context_dir", opts.ContextDir).
			WithContext("dockerfile", opts.Dockerfile).
			Build()
	}

	var stderr bytes.Buffer
	cmd := e.execCommand(ctx, e.binary, e.BuildArgs(opts)...)
	cmd.Stdout = opts.Stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		output := strings.TrimSpace(stderr.String())
		e.logger.Error("Container build failed",
			logfields.Directory(opts.ContextDir),
			slog.String("engine", e.binary),
			slog.String("stderr", output),
			logfields.Error(err))

		return errors.BuildError("container build failed").
			WithCause(err).
			WithContext("engine", e.binary).
			WithContext("directory", opts.ContextDir).
			WithContext("exit_code", exitCode(err)).
			WithContext("stderr", output).
			Build()
	}
	return nil
}

// exitCode extracts the process exit status, or -1 when the engine never ran.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
