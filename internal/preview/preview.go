// Package preview rebuilds the docs navigation whenever sources change and
// serves the output together with a small inspection API.
package preview

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docnav/internal/build"
	"git.home.luguber.info/inful/docnav/internal/config"
	"git.home.luguber.info/inful/docnav/internal/eventstore"
	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/metrics"
)

const shutdownTimeout = 5 * time.Second

// Options configure a preview session.
type Options struct {
	Addr       string
	ConfigPath string
	Service    *build.Service
	Recorder   metrics.Recorder
	// Metrics is served at the configured monitoring path when non-nil and enabled.
	Metrics http.Handler
	History *eventstore.BuildHistoryProjection
	// Pruner, when set with history.retain > 0, trims the build history
	// every history.prune_interval.
	Pruner   eventstore.Pruner
	Logger   *slog.Logger
	Debounce time.Duration
	// Ready, when set, receives the bound listen address once the server accepts connections.
	Ready func(addr string)
}

// Run performs an initial build, then watches the docs sources and rebuilds
// on change until ctx is done. A failing build keeps the previous output
// and route table in place.
func Run(ctx context.Context, opts Options) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Service == nil {
		opts.Service = build.NewService(build.WithLogger(opts.Logger), build.WithRecorder(opts.Recorder))
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	logger := opts.Logger
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	var cfgMu sync.Mutex
	currentConfig := func() *config.Config {
		cfgMu.Lock()
		defer cfgMu.Unlock()
		return cfg
	}

	status := &buildStatus{}
	hub := newReloadHub()
	rebuild := func(ctx context.Context) {
		next, err := config.Load(opts.ConfigPath)
		if err != nil {
			logger.Warn("Config reload failed; keeping previous config", logfields.Error(err))
			next = currentConfig()
		} else {
			cfgMu.Lock()
			cfg = next
			cfgMu.Unlock()
		}
		res, err := opts.Service.Run(ctx, build.Request{
			Config:     next,
			ConfigPath: opts.ConfigPath,
			Trigger:    build.TriggerPreview,
		})
		status.record(res, err)
		opts.Recorder.IncPreviewRebuild(err == nil)
		if err != nil {
			logger.Warn("Rebuild failed", logfields.Error(err))
			return
		}
		hub.broadcast(ReloadEvent{BuildID: res.Report.BuildID, Outcome: string(res.Report.Outcome)})
	}

	rebuild(ctx)

	configFile, err := filepath.Abs(opts.ConfigPath)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "failed to resolve config path").Build()
	}
	ws := newWatchSet(cfg.DocsDir(), cfg.SidebarFile(), configFile)
	watcher, err := setupFileWatcher(ws, logger)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to watch docs").
			WithContext("path", cfg.DocsDir()).Build()
	}
	defer func() { _ = watcher.Close() }()

	rc := routerConfig{
		outputDir: cfg.OutputDir(),
		status:    status,
		history:   opts.History,
		reload:    hub,
		logger:    logger,
	}
	if opts.Metrics != nil && cfg.Monitoring.Metrics.Enabled {
		rc.metrics, rc.metricsPath = opts.Metrics, cfg.Monitoring.Metrics.Path
	}
	srv := &http.Server{
		Handler:           newRouter(rc),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to listen").
			WithContext("addr", opts.Addr).Build()
	}
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	logger.Info("Preview server listening", logfields.URL("http://"+ln.Addr().String()))
	if opts.Ready != nil {
		opts.Ready(ln.Addr().String())
	}

	if opts.Pruner != nil && cfg.History.Retain > 0 && cfg.History.PruneInterval > 0 {
		retention, err := startRetention(ctx, opts.Pruner, cfg.History.Retain, cfg.History.PruneInterval, logger)
		if err != nil {
			logger.Warn("History retention disabled", logfields.Error(err))
		} else {
			defer func() {
				if err := retention.stop(); err != nil {
					logger.Warn("History retention shutdown error", logfields.Error(err))
				}
			}()
		}
	}

	worker := newRebuildWorker(rebuild)
	worker.start(ctx)
	deb := newDebouncer(opts.Debounce, worker.request)

	loopErr := watchLoop(ctx, watcher, ws, deb, serveErr, logger)

	logger.Info("Shutting down preview server")
	deb.stop()
	stop()
	hub.close()
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown error", logfields.Error(err))
	}
	worker.wait()
	return loopErr
}

// watchLoop dispatches filesystem events until ctx is done or the server fails.
func watchLoop(ctx context.Context, w *fsnotify.Watcher, ws watchSet, deb *debouncer, serveErr <-chan error, logger *slog.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-serveErr:
			if ok && err != nil {
				return ferrors.WrapError(err, ferrors.CategoryRuntime, "preview server failed").Build()
			}
			serveErr = nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			handleFileEvent(w, ws, ev, deb.trigger, logger)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}
