package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"git.home.luguber.info/inful/weave/internal/config"
)

// Global carries process-level state shared by every command.
type Global struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
}

func (g *Global) context() context.Context {
	if g.Ctx == nil {
		return context.Background()
	}
	return g.Ctx
}

func (g *Global) stdout() io.Writer {
	if g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

// colored reports whether progress lines go to a terminal that accepts colour.
func (g *Global) colored() bool {
	return g.stdout() == os.Stdout && !color.NoColor
}

func (g *Global) stderr() io.Writer {
	if g.Stderr == nil {
		return os.Stderr
	}
	return g.Stderr
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path (missing file means defaults)" default:"weave.yaml"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogFormat string           `name:"log-format" help:"Log output format (text|json); overrides logging.format"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" default:"withargs" help:"Detect changed directories and build the projects that own them"`
}

// AfterApply runs after flag parsing; installs a logger from the flags alone so
// configuration loading is logged. Commands refine it once the config is known.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	slog.SetDefault(c.newLogger(g, nil))
	return nil
}

// newLogger builds the slog logger for the merged flag and config settings.
// Flags win over the config file.
func (c *CLI) newLogger(g *Global, cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	format := config.LogFormatText
	if cfg != nil {
		level = cfg.Logging.Level.SlogLevel()
		format = cfg.Logging.Format
	}
	if c.Verbose {
		level = slog.LevelDebug
	}
	if c.LogFormat != "" {
		format = config.NormalizeLogFormat(c.LogFormat)
	}

	opts := &slog.HandlerOptions{Level: level}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(g.stderr(), opts))
	}
	return slog.New(slog.NewTextHandler(g.stderr(), opts))
}
