package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/docnav/internal/config"
)

// ValidateCmd runs every build stage except writing output.
type ValidateCmd struct{}

func (v *ValidateCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	res, err := runBuild(ctx, g, cfg, root.Config, true)
	if err != nil {
		return err
	}
	for _, w := range res.Report.Warnings {
		_, _ = fmt.Fprintf(g.Out, "warning: %s\n", w)
	}
	_, _ = fmt.Fprintf(g.Out, "Valid: %s\n", res.Report.Summary())
	return nil
}
