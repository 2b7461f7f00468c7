package preview

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docnav/internal/eventstore"
)

type countingPruner struct {
	calls atomic.Int32
	keep  atomic.Int32
	err   error
}

func (p *countingPruner) Prune(_ context.Context, keep int) (int64, error) {
	p.calls.Add(1)
	p.keep.Store(int32(keep))
	return 3, p.err
}

func TestRetention_PrunesPeriodically(t *testing.T) {
	p := &countingPruner{}
	r, err := startRetention(t.Context(), p, 7, 20*time.Millisecond, discardLogger())
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return p.calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, r.stop())
	assert.Equal(t, int32(7), p.keep.Load())
}

func TestRetention_SkipsAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	p := &countingPruner{err: errors.New("locked")}
	r := &retentionScheduler{pruner: p, keep: 1, logger: discardLogger()}
	r.prune(ctx)
	assert.Zero(t, p.calls.Load())

	r.prune(t.Context())
	assert.Equal(t, int32(1), p.calls.Load())
}

func TestRetention_PrunesSQLiteHistory(t *testing.T) {
	store, err := eventstore.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	for _, id := range []string{"b1", "b2", "b3"} {
		ev, err := eventstore.NewBuildStarted(id, eventstore.BuildStartedPayload{Trigger: "preview"})
		require.NoError(t, err)
		require.NoError(t, store.Append(t.Context(), ev))
	}

	r, err := startRetention(t.Context(), store, 1, time.Hour, discardLogger())
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		events, err := store.GetByBuildID(t.Context(), "b1")
		return err == nil && len(events) == 0
	}, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, r.stop())

	events, err := store.GetByBuildID(t.Context(), "b3")
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
