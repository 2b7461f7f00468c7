package eventstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendAll(t *testing.T, store Store, events ...*BaseEvent) {
	t.Helper()
	for _, ev := range events {
		require.NoError(t, store.Append(t.Context(), ev))
	}
}

func must(t *testing.T) func(*BaseEvent, error) *BaseEvent {
	return func(ev *BaseEvent, err error) *BaseEvent {
		t.Helper()
		require.NoError(t, err)
		return ev
	}
}

func TestProjection_Rebuild(t *testing.T) {
	store := newStore(t)

	started := must(t)(NewBuildStarted("b1", BuildStartedPayload{Revision: "abc123", Trigger: "cli"}))
	started.EventTimestamp = time.Now().Add(-2 * time.Minute)
	appendAll(t, store,
		started,
		must(t)(NewStageCompleted("b1", StageCompletedPayload{Stage: "load_docs", Result: "success", DurationMS: 3})),
		must(t)(NewBuildCompleted("b1", BuildCompletedPayload{Outcome: "warning", Documents: 4, Routes: 4, BrokenLinks: 1, DurationMS: 12})),
		must(t)(NewBuildStarted("b2", BuildStartedPayload{Trigger: "preview"})),
		must(t)(NewBuildFailed("b2", BuildFailedPayload{Stage: "build_sidebars", Error: "dangling document reference"})),
	)

	p := NewBuildHistoryProjection(store, 10)
	require.NoError(t, p.Rebuild(t.Context()))

	history := p.History()
	require.Len(t, history, 2)
	assert.Equal(t, "b2", history[0].BuildID, "newest first")

	b1, ok := p.Get("b1")
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, b1.Status)
	assert.Equal(t, "warning", b1.Outcome)
	assert.Equal(t, "abc123", b1.Revision)
	assert.Equal(t, 4, b1.Documents)
	require.Len(t, b1.Stages, 1)
	assert.Equal(t, "load_docs", b1.Stages[0].Stage)
	require.NotNil(t, b1.CompletedAt)

	b2, ok := p.Get("b2")
	require.True(t, ok)
	assert.Equal(t, StatusFailed, b2.Status)
	assert.Equal(t, "build_sidebars", b2.ErrorStage)
}

func TestProjection_ApplyAndBound(t *testing.T) {
	p := NewBuildHistoryProjection(newStore(t), 2)
	base := time.Now()
	for i, id := range []string{"a", "b", "c"} {
		ev := must(t)(NewBuildStarted(id, BuildStartedPayload{}))
		ev.EventTimestamp = base.Add(time.Duration(i) * time.Second)
		p.Apply(ev)
	}
	canceled := must(t)(NewBuildFailed("c", BuildFailedPayload{Stage: "load_docs", Canceled: true}))
	p.Apply(canceled)

	history := p.History()
	require.Len(t, history, 2)
	assert.Equal(t, "c", history[0].BuildID)
	assert.Equal(t, StatusCanceled, history[0].Status)
	assert.Equal(t, "b", history[1].BuildID)

	p.Apply(&BaseEvent{EventType: TypeBuildStarted})
	assert.Len(t, p.History(), 2)

	_, ok := p.Get("missing")
	assert.False(t, ok)
}
