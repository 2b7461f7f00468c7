package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/docnav/internal/build"
	"git.home.luguber.info/inful/docnav/internal/config"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Override output.directory"`
}

func (b *BuildCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if b.Output != "" {
		cfg.Output.Directory = b.Output
	}
	res, err := runBuild(ctx, g, cfg, root.Config, false)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.Out, "Build %s: %s\n", res.Report.BuildID, res.Report.Summary())
	_, _ = fmt.Fprintf(g.Out, "Output written to %s\n", res.Report.OutputDir)
	return nil
}

func runBuild(ctx context.Context, g *Global, cfg *config.Config, configPath string, dryRun bool) (*build.Result, error) {
	s, err := openSession(ctx, g, cfg)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.service.Run(ctx, build.Request{
		Config:     cfg,
		ConfigPath: configPath,
		DryRun:     dryRun,
		Trigger:    build.TriggerCLI,
	})
}
