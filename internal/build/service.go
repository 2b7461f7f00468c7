package build

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docnav/internal/config"
	"git.home.luguber.info/inful/docnav/internal/docs"
	"git.home.luguber.info/inful/docnav/internal/eventstore"
	ferrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/linkcheck"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/metrics"
	"git.home.luguber.info/inful/docnav/internal/routes"
	"git.home.luguber.info/inful/docnav/internal/sidebar"
)

// Trigger names what started a build.
type Trigger string

const (
	TriggerCLI     Trigger = "cli"
	TriggerPreview Trigger = "preview"
)

// Request contains all inputs required to execute a build.
type Request struct {
	// Config is the loaded configuration for this build.
	Config *config.Config

	// ConfigPath is recorded in the build history.
	ConfigPath string

	// DryRun runs every validation stage but writes nothing.
	DryRun bool

	Trigger Trigger
}

// Result is what a build produced. Fields are nil when the stage that
// fills them did not run.
type Result struct {
	Report   *Report
	Registry *docs.Registry
	Tree     *sidebar.Tree
	Table    *routes.Table
}

// Service executes builds. It is safe to reuse across runs but runs must
// not overlap on the same output directory.
type Service struct {
	logger     *slog.Logger
	recorder   metrics.Recorder
	store      eventstore.Store
	projection *eventstore.BuildHistoryProjection
	publisher  linkcheck.Publisher
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used by every stage.
func WithLogger(l *slog.Logger) Option { return func(s *Service) { s.logger = l } }

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option { return func(s *Service) { s.recorder = r } }

// WithHistory records build events in store and, if projection is non-nil, keeps it current.
func WithHistory(store eventstore.Store, projection *eventstore.BuildHistoryProjection) Option {
	return func(s *Service) {
		s.store = store
		s.projection = projection
	}
}

// WithPublisher publishes broken links as events.
func WithPublisher(p linkcheck.Publisher) Option { return func(s *Service) { s.publisher = p } }

// NewService creates a build service.
func NewService(opts ...Option) *Service {
	s := &Service{logger: slog.Default(), recorder: metrics.NoopRecorder{}}
	for _, opt := range opts {
		opt(s)
	}
	if s.recorder == nil {
		s.recorder = metrics.NoopRecorder{}
	}
	return s
}

// Pipeline returns the stages for req in execution order.
func (s *Service) Pipeline(req Request) []StageDef {
	return NewPipeline().
		Add(StageResolveRevision, stageResolveRevision).
		Add(StageLoadDocs, stageLoadDocs).
		Add(StageBuildSidebars, stageBuildSidebars).
		Add(StageGenerateRoutes, stageGenerateRoutes).
		Add(StageCheckLinks, stageCheckLinks).
		Add(StageRenderFeatures, stageRenderFeatures).
		AddIf(!req.DryRun, StageWriteOutput, stageWriteOutput).
		Build()
}

// Run executes one build. The report is returned even when the build
// fails; the error is the StageError that aborted it.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Config == nil {
		return nil, ferrors.ConfigError("build requires a configuration").Build()
	}
	if req.Trigger == "" {
		req.Trigger = TriggerCLI
	}
	buildID := uuid.NewString()
	logger := s.logger.With(logfields.BuildID(buildID))

	bs := &BuildState{
		Config:    req.Config,
		BuildID:   buildID,
		Logger:    logger,
		Recorder:  s.recorder,
		Publisher: s.publisher,
		Report:    NewReport(buildID),
	}

	obs := observers{logObserver{}, RecorderObserver{Recorder: s.recorder}}
	if s.store != nil {
		obs = append(obs, HistoryObserver{
			Store:      s.store,
			Projection: s.projection,
			ConfigPath: req.ConfigPath,
			Trigger:    string(req.Trigger),
		})
	}

	obs.OnBuildStart(bs)
	err := runStages(ctx, bs, s.Pipeline(req), obs)
	bs.Report.Finish()
	bs.Report.DeriveOutcome()

	if err == nil && bs.Report.OutputDir != "" {
		if perr := bs.Report.Persist(bs.Report.OutputDir); perr != nil {
			logger.Warn("Failed to persist build report", logfields.Error(perr))
		}
	}
	obs.OnBuildComplete(bs)

	return &Result{Report: bs.Report, Registry: bs.Registry, Tree: bs.Tree, Table: bs.Table}, err
}
