package buildtool

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/weave/internal/logfields"
)

// PipelineMarker identifies a directory driven by a CI pipeline definition.
const PipelineMarker = ".gitlab-ci.yml"

// PipelineNote is reported for pipeline units, which never produce an artifact.
const PipelineNote = "placeholder: no artifact produced"

// PipelineBuild is a directory carrying a pipeline definition. Building it is a
// placeholder that succeeds without triggering anything.
type PipelineBuild struct {
	Config BuildConfig
	logger *slog.Logger
}

func (p *PipelineBuild) Kind() Kind        { return KindPipeline }
func (p *PipelineBuild) Directory() string { return p.Config.Directory }
func (p *PipelineBuild) Identity() Identity {
	return Identity{Kind: KindPipeline, Directory: p.Config.Directory}
}

func (p *PipelineBuild) Build(_ context.Context) (Result, error) {
	p.logger.Warn("Pipeline builds are not triggered; reporting success without running anything",
		logfields.Directory(p.Config.Directory),
		logfields.Marker(PipelineMarker))
	return Result{Note: PipelineNote}, nil
}

func (p *PipelineBuild) sealed() {}
