package commands

import (
	"context"

	"git.home.luguber.info/inful/docnav/internal/config"
)

// RoutesCmd prints the route tree of a dry-run build.
type RoutesCmd struct {
	JSON bool `name:"json" help:"Print the route manifest as JSON"`
}

func (r *RoutesCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	res, err := runBuild(ctx, g, cfg, root.Config, true)
	if err != nil {
		return err
	}
	if r.JSON {
		return res.Table.Write(g.Out)
	}
	return res.Table.Print(g.Out)
}
