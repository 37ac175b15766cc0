package commands

import (
	"fmt"
	"io"
	"log/slog"

	"git.home.luguber.info/inful/weave/internal/build"
	"git.home.luguber.info/inful/weave/internal/cli"
	"git.home.luguber.info/inful/weave/internal/config"
	"git.home.luguber.info/inful/weave/internal/foundation/errors"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Directory       string `short:"d" help:"Repository root (ci mode) or scan root (all mode)" default:"."`
	Mode            string `short:"m" help:"Observation mode: ci (changes in HEAD) or all (every directory); overrides mode"`
	Strict          bool   `help:"Fail the run when change detection or any build fails"`
	DryRun          bool   `name:"dry-run" help:"List the build units without building them"`
	Dockerfile      string `help:"Container marker file name; overrides container.dockerfile"`
	ContainerEngine string `name:"container-engine" help:"Container engine binary (docker, podman, ...); overrides container.engine"`
	MetricsTextfile string `name:"metrics-textfile" help:"Write Prometheus metrics to this file after the run; overrides metrics.textfile"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		if errors.IsClassified(err) {
			return err
		}
		return errors.WrapError(err, errors.CategoryConfig, "load config").
			WithContext("path", root.Config).
			Fatal().
			Build()
	}
	if err := b.applyOverrides(cfg); err != nil {
		return err
	}

	logger := root.newLogger(g, cfg)
	slog.SetDefault(logger)
	logger.Debug("Configuration loaded",
		slog.String("config", root.Config),
		slog.String("mode", string(cfg.Mode)),
		slog.Bool("strict", cfg.Strict),
		slog.String("engine", cfg.Container.Engine))

	resp, err := cli.NewCommandExecutor(logger).ExecuteBuild(g.context(), cli.BuildRequest{
		Directory: b.Directory,
		Config:    cfg,
		DryRun:    b.DryRun,
		Output:    g.stdout(),
		Color:     g.colored(),
	}).ToTuple()
	if err != nil {
		return err
	}

	printSummary(g.stdout(), resp)
	return nil
}

// applyOverrides layers non-empty flags over the loaded configuration.
func (b *BuildCmd) applyOverrides(cfg *config.Config) error {
	if b.Mode != "" {
		mode, err := config.ParseMode(b.Mode)
		if err != nil {
			return errors.ValidationError("invalid --mode").
				WithCause(err).
				WithContext("valid", config.ValidModes()).
				Build()
		}
		cfg.Mode = mode
	}
	if b.Strict {
		cfg.Strict = true
	}
	if b.Dockerfile != "" {
		cfg.Container.Dockerfile = b.Dockerfile
	}
	if b.ContainerEngine != "" {
		cfg.Container.Engine = b.ContainerEngine
	}
	if b.MetricsTextfile != "" {
		cfg.Metrics.Textfile = b.MetricsTextfile
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return err
	}
	return nil
}

func printSummary(w io.Writer, resp cli.BuildResponse) {
	if resp.ObserveErr != nil {
		fmt.Fprintf(w, "No changes detected: %v\n", resp.ObserveErr)
	}
	d := resp.Dispatch
	if d == nil {
		return
	}
	if d.DryRun {
		fmt.Fprintf(w, "%d build unit(s) from %d changed director(ies); dry run, nothing built\n",
			len(resp.Units), resp.ChangedDirectories)
		return
	}
	fmt.Fprintf(w, "%d build unit(s) from %d changed director(ies): %d succeeded, %d failed, %d cancelled\n",
		len(resp.Units), resp.ChangedDirectories,
		d.Count(build.BuildStatusSuccess), d.Count(build.BuildStatusFailed), d.Count(build.BuildStatusCancelled))
}
