package preview

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"git.home.luguber.info/inful/docnav/internal/logfields"
)

const reloadWriteTimeout = 5 * time.Second

// ReloadEvent is pushed to live reload clients after each successful rebuild.
type ReloadEvent struct {
	BuildID string `json:"build_id"`
	Outcome string `json:"outcome"`
}

// reloadHub fans rebuild notifications out to websocket clients. A slow
// client only ever holds the newest pending event.
type reloadHub struct {
	mu      sync.Mutex
	clients map[chan ReloadEvent]struct{}
	closed  bool
}

func newReloadHub() *reloadHub {
	return &reloadHub{clients: make(map[chan ReloadEvent]struct{})}
}

func (h *reloadHub) subscribe() (<-chan ReloadEvent, func(), bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, func() {}, false
	}
	ch := make(chan ReloadEvent, 1)
	h.clients[ch] = struct{}{}
	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.clients[ch]; ok {
			delete(h.clients, ch)
			close(ch)
		}
	}, true
}

func (h *reloadHub) broadcast(ev ReloadEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case <-ch:
		default:
		}
		ch <- ev
	}
}

func (h *reloadHub) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// close disconnects every client. Hijacked connections outlive http.Server.Shutdown.
func (h *reloadHub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for ch := range h.clients {
		delete(h.clients, ch)
		close(ch)
	}
}

func (h *reloadHub) handler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			logger.Debug("Live reload upgrade failed", logfields.Error(err))
			return
		}
		defer func() { _ = conn.CloseNow() }()

		events, unsubscribe, ok := h.subscribe()
		defer unsubscribe()
		if !ok {
			_ = conn.Close(websocket.StatusGoingAway, "shutting down")
			return
		}

		ctx := conn.CloseRead(r.Context())
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					_ = conn.Close(websocket.StatusGoingAway, "shutting down")
					return
				}
				if err := writeEvent(ctx, conn, ev); err != nil {
					return
				}
			}
		}
	}
}

func writeEvent(ctx context.Context, conn *websocket.Conn, ev ReloadEvent) error {
	ctx, cancel := context.WithTimeout(ctx, reloadWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, ev)
}
