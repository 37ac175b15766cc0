package buildtool

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/weave/internal/container"
	"git.home.luguber.info/inful/weave/internal/foundation"
)

// Recognizer checks a directory for one marker file.
type Recognizer struct {
	Name   string
	Marker string
	Detect func(cfg BuildConfig) foundation.Option[Unit]
}

// Registry holds recognizers in priority order.
type Registry struct {
	recognizers []Recognizer
}

// NewRegistry creates a registry consulting recognizers in the given order.
func NewRegistry(recognizers ...Recognizer) *Registry {
	return &Registry{recognizers: append([]Recognizer(nil), recognizers...)}
}

// Recognizers returns the recognizers in priority order.
func (r *Registry) Recognizers() []Recognizer {
	return append([]Recognizer(nil), r.recognizers...)
}

// Recognize returns the unit produced by the first matching recognizer.
func (r *Registry) Recognize(cfg BuildConfig) foundation.Option[Unit] {
	for _, rec := range r.recognizers {
		if unit := rec.Detect(cfg); unit.IsSome() {
			return unit
		}
	}
	return foundation.None[Unit]()
}

// Options configure the default recognizers.
type Options struct {
	// Dockerfile overrides the container marker name.
	Dockerfile string
	// Engine runs container builds; nil uses the docker CLI.
	Engine ImageBuilder
	// Output receives build tool output; nil discards it.
	Output io.Writer
	Logger *slog.Logger
}

// DefaultRegistry returns the pipeline recognizer followed by the container recognizer.
func DefaultRegistry(opts Options) *Registry {
	return NewRegistry(PipelineRecognizer(opts.Logger), ContainerRecognizer(opts))
}

// PipelineRecognizer matches directories holding .gitlab-ci.yml.
func PipelineRecognizer(logger *slog.Logger) Recognizer {
	if logger == nil {
		logger = slog.Default()
	}
	return Recognizer{
		Name:   string(KindPipeline),
		Marker: PipelineMarker,
		Detect: func(cfg BuildConfig) foundation.Option[Unit] {
			if !hasMarker(cfg.Directory, PipelineMarker) {
				return foundation.None[Unit]()
			}
			return foundation.Some[Unit](&PipelineBuild{Config: cfg, logger: logger})
		},
	}
}

// ContainerRecognizer matches directories holding a Dockerfile.
func ContainerRecognizer(opts Options) Recognizer {
	marker := opts.Dockerfile
	if marker == "" {
		marker = "Dockerfile"
	}
	engine := opts.Engine
	if engine == nil {
		engine = container.New(container.DefaultBinary, container.WithLogger(opts.Logger))
	}
	return Recognizer{
		Name:   string(KindContainer),
		Marker: marker,
		Detect: func(cfg BuildConfig) foundation.Option[Unit] {
			if !hasMarker(cfg.Directory, marker) {
				return foundation.None[Unit]()
			}
			return foundation.Some[Unit](&ContainerBuild{
				Config:     cfg,
				MarkerFile: marker,
				engine:     engine,
				output:     opts.Output,
			})
		},
	}
}

// hasMarker reports whether dir contains a regular file called name.
func hasMarker(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && info.Mode().IsRegular()
}
