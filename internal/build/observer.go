package build

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/docnav/internal/eventstore"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/metrics"
)

// BuildObserver receives callbacks around stage execution and the build
// lifecycle. Observers must not fail the build.
type BuildObserver interface {
	OnBuildStart(bs *BuildState)
	OnStageStart(bs *BuildState, stage StageName)
	OnStageComplete(bs *BuildState, stage StageName, d time.Duration, result StageResult)
	OnBuildComplete(bs *BuildState)
}

// NoopObserver is a no-op implementation.
type NoopObserver struct{}

func (NoopObserver) OnBuildStart(*BuildState)                                           {}
func (NoopObserver) OnStageStart(*BuildState, StageName)                                {}
func (NoopObserver) OnStageComplete(*BuildState, StageName, time.Duration, StageResult) {}
func (NoopObserver) OnBuildComplete(*BuildState)                                        {}

// observers fans callbacks out in registration order.
type observers []BuildObserver

func (o observers) OnBuildStart(bs *BuildState) {
	for _, ob := range o {
		ob.OnBuildStart(bs)
	}
}

func (o observers) OnStageStart(bs *BuildState, stage StageName) {
	for _, ob := range o {
		ob.OnStageStart(bs, stage)
	}
}

func (o observers) OnStageComplete(bs *BuildState, stage StageName, d time.Duration, result StageResult) {
	for _, ob := range o {
		ob.OnStageComplete(bs, stage, d, result)
	}
}

func (o observers) OnBuildComplete(bs *BuildState) {
	for _, ob := range o {
		ob.OnBuildComplete(bs)
	}
}

// RecorderObserver adapts metrics.Recorder into a BuildObserver.
type RecorderObserver struct{ Recorder metrics.Recorder }

func (r RecorderObserver) OnBuildStart(*BuildState)            {}
func (r RecorderObserver) OnStageStart(*BuildState, StageName) {}

func (r RecorderObserver) OnStageComplete(_ *BuildState, stage StageName, d time.Duration, _ StageResult) {
	if r.Recorder != nil {
		r.Recorder.ObserveStageDuration(string(stage), d)
	}
}

func (r RecorderObserver) OnBuildComplete(bs *BuildState) {
	if r.Recorder != nil {
		r.Recorder.ObserveBuildDuration(bs.Report.Duration())
		r.Recorder.IncBuildOutcome(metrics.BuildOutcomeLabel(bs.Report.Outcome))
	}
}

// logObserver reports stage progress on the build logger.
type logObserver struct{}

func (logObserver) OnBuildStart(bs *BuildState) {
	bs.logger().Info("Build started", slog.String("docs", bs.Config.DocsDir()))
}

func (logObserver) OnStageStart(bs *BuildState, stage StageName) {
	bs.logger().Debug("Stage started", logfields.Stage(string(stage)))
}

func (logObserver) OnStageComplete(bs *BuildState, stage StageName, d time.Duration, result StageResult) {
	level := slog.LevelDebug
	if result != StageResultSuccess {
		level = slog.LevelWarn
	}
	bs.logger().Log(context.Background(), level, "Stage completed",
		logfields.Stage(string(stage)),
		logfields.DurationMS(float64(d)/float64(time.Millisecond)),
		slog.String("result", string(result)))
}

func (logObserver) OnBuildComplete(bs *BuildState) {
	r := bs.Report
	attrs := []any{slog.String("outcome", string(r.Outcome)), slog.String("summary", r.Summary())}
	if r.Outcome == OutcomeFailed || r.Outcome == OutcomeCanceled {
		bs.logger().Error("Build finished", attrs...)
		return
	}
	bs.logger().Info("Build finished", attrs...)
}

const historyWriteTimeout = 5 * time.Second

// HistoryObserver appends build lifecycle events to the event store and,
// when set, folds them into a live projection.
type HistoryObserver struct {
	Store      eventstore.Store
	Projection *eventstore.BuildHistoryProjection
	ConfigPath string
	Trigger    string
}

func (h HistoryObserver) append(bs *BuildState, ev *eventstore.BaseEvent, err error) {
	if err != nil {
		bs.logger().Warn("Failed to encode history event", logfields.Error(err))
		return
	}
	// Canceled builds are still recorded, so writes do not inherit the build context.
	ctx, cancel := context.WithTimeout(context.Background(), historyWriteTimeout)
	defer cancel()
	if err := h.Store.Append(ctx, ev); err != nil {
		bs.logger().Warn("Failed to append history event", slog.String("type", ev.Type()), logfields.Error(err))
		return
	}
	if h.Projection != nil {
		h.Projection.Apply(ev)
	}
}

func (h HistoryObserver) OnBuildStart(bs *BuildState) {
	ev, err := eventstore.NewBuildStarted(bs.BuildID, eventstore.BuildStartedPayload{
		ConfigPath: h.ConfigPath,
		Trigger:    h.Trigger,
	})
	h.append(bs, ev, err)
}

func (h HistoryObserver) OnStageStart(*BuildState, StageName) {}

func (h HistoryObserver) OnStageComplete(bs *BuildState, stage StageName, d time.Duration, result StageResult) {
	ev, err := eventstore.NewStageCompleted(bs.BuildID, eventstore.StageCompletedPayload{
		Stage:      string(stage),
		Result:     string(result),
		DurationMS: float64(d) / float64(time.Millisecond),
	})
	h.append(bs, ev, err)
}

func (h HistoryObserver) OnBuildComplete(bs *BuildState) {
	r := bs.Report
	durMS := float64(r.Duration()) / float64(time.Millisecond)
	if r.Outcome == OutcomeFailed || r.Outcome == OutcomeCanceled {
		p := eventstore.BuildFailedPayload{Canceled: r.Outcome == OutcomeCanceled, DurationMS: durMS}
		if len(r.Errors) > 0 {
			p.Error = r.Errors[0].Error()
			var se *StageError
			if errors.As(r.Errors[0], &se) {
				p.Stage = string(se.Stage)
				p.Error = se.Err.Error()
			}
		}
		ev, err := eventstore.NewBuildFailed(bs.BuildID, p)
		h.append(bs, ev, err)
		return
	}
	ev, err := eventstore.NewBuildCompleted(bs.BuildID, eventstore.BuildCompletedPayload{
		Outcome:     string(r.Outcome),
		Revision:    r.Revision,
		Documents:   r.Documents,
		Routes:      r.Routes,
		BrokenLinks: len(r.LinkIssues),
		DurationMS:  durMS,
	})
	h.append(bs, ev, err)
}
