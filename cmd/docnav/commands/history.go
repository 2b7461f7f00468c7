package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/docnav/internal/config"
	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

// HistoryCmd lists builds recorded in the history database.
type HistoryCmd struct {
	Limit int  `short:"n" default:"20" help:"Maximum number of builds to list"`
	JSON  bool `name:"json" help:"Print summaries as JSON"`
}

func (h *HistoryCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if cfg.History.Path == "" {
		return ferrors.ConfigError("build history is not enabled (set history.path)").
			WithContext("config", root.Config).Build()
	}
	projection, store, err := openHistory(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	builds := projection.History()
	if h.Limit > 0 && len(builds) > h.Limit {
		builds = builds[:h.Limit]
	}
	if h.JSON {
		enc := json.NewEncoder(g.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(builds)
	}

	tw := tabwriter.NewWriter(g.Out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "BUILD\tSTARTED\tSTATUS\tOUTCOME\tDOCS\tROUTES\tBROKEN\tREVISION")
	for _, b := range builds {
		outcome := b.Outcome
		if b.ErrorStage != "" {
			outcome = b.ErrorStage + ": " + b.ErrorMessage
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			b.BuildID, b.StartedAt.Format(time.RFC3339), b.Status, outcome,
			b.Documents, b.Routes, b.BrokenLinks, shortRevision(b.Revision))
	}
	return tw.Flush()
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
