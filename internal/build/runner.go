package build

import (
	"context"
	"errors"
	"time"
)

// stageOutcome is the normalized result of one stage execution.
type stageOutcome struct {
	Stage    StageName
	Error    *StageError
	Result   StageResult
	Severity IssueSeverity
	Abort    bool
}

func resultFromStageErrorKind(k StageErrorKind) StageResult {
	switch k {
	case StageErrorWarning:
		return StageResultWarning
	case StageErrorCanceled:
		return StageResultCanceled
	default:
		return StageResultFatal
	}
}

// classifyStageResult converts a raw stage error into a stageOutcome. Errors
// that are not StageErrors are fatal; a context error surfacing from a stage
// counts as cancellation.
func classifyStageResult(stage StageName, err error) stageOutcome {
	if err == nil {
		return stageOutcome{Stage: stage, Result: StageResultSuccess}
	}

	var se *StageError
	if !errors.As(err, &se) {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			se = NewCanceledStageError(stage, err)
		} else {
			se = NewFatalStageError(stage, err)
		}
	}

	severity := SeverityError
	if se.Kind == StageErrorWarning {
		severity = SeverityWarning
	}
	return stageOutcome{
		Stage:    stage,
		Error:    se,
		Result:   resultFromStageErrorKind(se.Kind),
		Severity: severity,
		Abort:    se.Kind == StageErrorFatal || se.Kind == StageErrorCanceled,
	}
}

// runStages executes stages in order, recording timing and stopping on the
// first fatal or canceled stage.
func runStages(ctx context.Context, bs *BuildState, stages []StageDef, obs BuildObserver) error {
	for _, st := range stages {
		select {
		case <-ctx.Done():
			se := NewCanceledStageError(st.Name, ctx.Err())
			bs.Report.StageErrorKinds[st.Name] = se.Kind
			bs.Report.AddIssue(st.Name, SeverityError, se)
			bs.Report.RecordStageResult(st.Name, StageResultCanceled, bs.Recorder)
			obs.OnStageComplete(bs, st.Name, 0, StageResultCanceled)
			return se
		default:
		}

		obs.OnStageStart(bs, st.Name)

		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)

		bs.Report.StageDurations[st.Name] = dur

		out := classifyStageResult(st.Name, err)
		if out.Error != nil {
			bs.Report.StageErrorKinds[st.Name] = out.Error.Kind
			bs.Report.AddIssue(st.Name, out.Severity, out.Error)
		}

		bs.Report.RecordStageResult(st.Name, out.Result, bs.Recorder)
		obs.OnStageComplete(bs, st.Name, dur, out.Result)

		if out.Abort {
			return out.Error
		}
	}
	return nil
}
