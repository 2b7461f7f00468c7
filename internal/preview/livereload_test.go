package preview

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReloadHub_BroadcastKeepsNewest(t *testing.T) {
	hub := newReloadHub()
	events, unsubscribe, ok := hub.subscribe()
	require.True(t, ok)
	defer unsubscribe()

	hub.broadcast(ReloadEvent{BuildID: "one"})
	hub.broadcast(ReloadEvent{BuildID: "two"})
	assert.Equal(t, "two", (<-events).BuildID)

	hub.close()
	_, open := <-events
	assert.False(t, open)

	_, _, ok = hub.subscribe()
	assert.False(t, ok)
}

func TestLiveReloadEndpoint(t *testing.T) {
	hub := newReloadHub()
	srv := httptest.NewServer(newRouter(routerConfig{
		outputDir: t.TempDir(),
		status:    &buildStatus{},
		reload:    hub,
		logger:    discardLogger(),
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/_livereload", nil)
	require.NoError(t, err)
	defer func() { _ = conn.CloseNow() }()

	require.Eventually(t, func() bool { return hub.clientCount() == 1 }, 2*time.Second, 10*time.Millisecond)
	hub.broadcast(ReloadEvent{BuildID: "b1", Outcome: "success"})

	var ev ReloadEvent
	require.NoError(t, wsjson.Read(ctx, conn, &ev))
	assert.Equal(t, ReloadEvent{BuildID: "b1", Outcome: "success"}, ev)

	hub.close()
	_, _, err = conn.Read(ctx)
	assert.Equal(t, websocket.StatusGoingAway, websocket.CloseStatus(err))
}
