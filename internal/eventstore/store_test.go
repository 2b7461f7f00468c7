package eventstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_AppendAndGet(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()

	ev := &BaseEvent{
		EventBuildID:  "b1",
		EventType:     "Custom",
		EventPayload:  []byte(`{"k":"v"}`),
		EventMetadata: map[string]string{"host": "ci"},
	}
	require.NoError(t, store.Append(ctx, ev))
	require.NoError(t, store.Append(ctx, &BaseEvent{EventBuildID: "b2", EventType: "Other"}))

	events, err := store.GetByBuildID(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Custom", events[0].Type())
	assert.JSONEq(t, `{"k":"v"}`, string(events[0].Payload()))
	assert.Equal(t, "ci", events[0].Metadata()["host"])
	assert.NotZero(t, events[0].ID())
	assert.False(t, events[0].Timestamp().IsZero())
}

func TestSQLiteStore_GetRange(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()

	old := &BaseEvent{EventBuildID: "old", EventType: "X", EventTimestamp: time.Now().Add(-48 * time.Hour)}
	recent := &BaseEvent{EventBuildID: "new", EventType: "X", EventTimestamp: time.Now()}
	require.NoError(t, store.Append(ctx, old))
	require.NoError(t, store.Append(ctx, recent))

	events, err := store.GetRange(ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "new", events[0].BuildID())
}

func TestSQLiteStore_PersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	ev, err := NewBuildStarted("b1", BuildStartedPayload{Trigger: "cli"})
	require.NoError(t, err)
	require.NoError(t, store.Append(t.Context(), ev))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	events, err := reopened.GetByBuildID(t.Context(), "b1")
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestSQLiteStore_PruneKeepsNewestBuilds(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()
	for _, id := range []string{"b1", "b2", "b3"} {
		require.NoError(t, store.Append(ctx, &BaseEvent{EventBuildID: id, EventType: TypeBuildStarted}))
		require.NoError(t, store.Append(ctx, &BaseEvent{EventBuildID: id, EventType: TypeBuildCompleted}))
	}

	n, err := store.Prune(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	events, err := store.GetByBuildID(ctx, "b1")
	require.NoError(t, err)
	assert.Empty(t, events)
	for _, id := range []string{"b2", "b3"} {
		events, err := store.GetByBuildID(ctx, id)
		require.NoError(t, err)
		assert.Len(t, events, 2, id)
	}

	n, err = store.Prune(ctx, 5)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = store.Prune(ctx, 0)
	require.Error(t, err)
}
