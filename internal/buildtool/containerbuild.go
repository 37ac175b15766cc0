package buildtool

import (
	"context"
	"io"

	"git.home.luguber.info/inful/weave/internal/container"
)

// ImageBuilder runs a container image build. *container.Engine satisfies it.
type ImageBuilder interface {
	Build(ctx context.Context, opts container.BuildOptions) error
}

// ContainerBuild is a directory carrying a Dockerfile.
type ContainerBuild struct {
	Config     BuildConfig
	MarkerFile string

	engine ImageBuilder
	output io.Writer
}

func (c *ContainerBuild) Kind() Kind        { return KindContainer }
func (c *ContainerBuild) Directory() string { return c.Config.Directory }
func (c *ContainerBuild) Identity() Identity {
	return Identity{Kind: KindContainer, Directory: c.Config.Directory}
}

// Build runs the image build synchronously using the directory as context.
func (c *ContainerBuild) Build(ctx context.Context) (Result, error) {
	err := c.engine.Build(ctx, container.BuildOptions{
		ContextDir: c.Config.Directory,
		Dockerfile: c.MarkerFile,
		Tag:        container.ImageTag,
		Stdout:     c.output,
	})
	return Result{}, err
}

func (c *ContainerBuild) sealed() {}
