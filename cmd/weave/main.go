package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/weave/cmd/weave/commands"
	"git.home.luguber.info/inful/weave/internal/foundation/errors"
	"git.home.luguber.info/inful/weave/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cli := &commands.CLI{}
	global := &commands.Global{Ctx: ctx, Stdout: os.Stdout, Stderr: os.Stderr}

	parser := kong.Must(cli,
		kong.Name("weave"),
		kong.Description("Build only the projects touched by the last commit of a monorepo."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
	)
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if err := kctx.Run(cli); err != nil {
		stop()
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
