// Package commands implements the docnav command line.
package commands

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/docnav/internal/build"
	"git.home.luguber.info/inful/docnav/internal/config"
	"git.home.luguber.info/inful/docnav/internal/eventstore"
	"git.home.luguber.info/inful/docnav/internal/linkcheck"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/metrics"
)

// Global is shared by every subcommand.
type Global struct {
	Logger   *slog.Logger
	Out      io.Writer
	Registry *prom.Registry
	Recorder *metrics.PrometheusRecorder
}

// NewGlobal wires the logger, stdout and a fresh metrics registry.
func NewGlobal(logger *slog.Logger, out io.Writer) *Global {
	reg := prom.NewRegistry()
	return &Global{
		Logger:   logger,
		Out:      out,
		Registry: reg,
		Recorder: metrics.NewPrometheusRecorder(reg),
	}
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docnav.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Validate the docs and write sidebars, routes and site metadata"`
	Validate ValidateCmd `cmd:"" help:"Validate config, sidebars, routes and links without writing output"`
	Routes   RoutesCmd   `cmd:"" help:"Print the generated route tree"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
	Preview  PreviewCmd  `cmd:"" help:"Rebuild on change and serve the output locally"`
	History  HistoryCmd  `cmd:"" help:"List recorded builds"`
}

// NewLogger returns a text logger on w. Verbose wins over DOCNAV_LOG_LEVEL.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLogLevel(verbose)}))
}

func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	o, err := config.ReadEnvOverrides()
	if err != nil || o.LogLevel == "" {
		return slog.LevelInfo
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(o.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// session holds the build service and the resources it borrowed.
type session struct {
	service    *build.Service
	projection *eventstore.BuildHistoryProjection
	store      *eventstore.SQLiteStore
	closers    []io.Closer
}

func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i].Close()
	}
}

// openSession builds a service for cfg with history and link events when configured.
func openSession(ctx context.Context, g *Global, cfg *config.Config) (*session, error) {
	s := &session{}
	opts := []build.Option{build.WithLogger(g.Logger), build.WithRecorder(g.Recorder)}

	if cfg.History.Path != "" {
		projection, store, err := openHistory(ctx, cfg)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, store)
		s.projection = projection
		s.store = store
		opts = append(opts, build.WithHistory(store, projection))
	}

	if cfg.LinkEvents.Enabled {
		policy := linkcheck.RetryPolicy(cfg.LinkEvents.Retry)
		var pub *linkcheck.NATSPublisher
		err := policy.Do(ctx, func(ctx context.Context) error {
			var err error
			pub, err = linkcheck.NewNATSPublisher(ctx, cfg.LinkEvents)
			return err
		})
		if err != nil {
			g.Logger.Warn("Link events disabled", logfields.URL(cfg.LinkEvents.NATSURL), logfields.Error(err))
		} else {
			s.closers = append(s.closers, pub)
			opts = append(opts, build.WithPublisher(linkcheck.WithRetry(pub, policy)))
		}
	}

	s.service = build.NewService(opts...)
	return s, nil
}

func openHistory(ctx context.Context, cfg *config.Config) (*eventstore.BuildHistoryProjection, *eventstore.SQLiteStore, error) {
	path := cfg.History.Path
	if path != ":memory:" {
		path = cfg.ResolvePath(path)
	}
	store, err := eventstore.NewSQLiteStore(path)
	if err != nil {
		return nil, nil, err
	}
	projection := eventstore.NewBuildHistoryProjection(store, cfg.History.Retain)
	if err := projection.Rebuild(ctx); err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return projection, store, nil
}
