package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docnav/cmd/docnav/commands"
	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/version"
)

func main() {
	var cli commands.CLI
	parser := kong.Parse(&cli,
		kong.Name("docnav"),
		kong.Description("Build docs sidebars, route manifests and site metadata from a docs directory."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	logger := commands.NewLogger(os.Stderr, cli.Verbose)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	parser.BindTo(ctx, (*context.Context)(nil))

	err := parser.Run(commands.NewGlobal(logger, os.Stdout), &cli)
	cancel()
	if err != nil {
		os.Exit(ferrors.NewCLIErrorAdapter(cli.Verbose, logger).HandleError(err))
	}
}
