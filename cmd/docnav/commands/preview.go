package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/docnav/internal/config"
	"git.home.luguber.info/inful/docnav/internal/metrics"
	"git.home.luguber.info/inful/docnav/internal/preview"
)

// PreviewCmd rebuilds on change and serves the output.
type PreviewCmd struct {
	Addr string `name:"addr" default:"127.0.0.1:1316" help:"Listen address"`
}

func (p *PreviewCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	s, err := openSession(ctx, g, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	opts := preview.Options{
		Addr:       p.Addr,
		ConfigPath: root.Config,
		Service:    s.service,
		Recorder:   g.Recorder,
		Metrics:    metrics.HTTPHandler(g.Registry),
		History:    s.projection,
		Logger:     g.Logger,
		Ready: func(addr string) {
			_, _ = fmt.Fprintf(g.Out, "Preview at http://%s\n", addr)
		},
	}
	if s.store != nil {
		opts.Pruner = s.store
	}
	return preview.Run(ctx, opts)
}
