package preview

import "context"

// rebuildWorker runs rebuilds one at a time. Requests that arrive while a
// rebuild is running collapse into a single follow-up rebuild.
type rebuildWorker struct {
	requests chan struct{}
	rebuild  func(context.Context)
	done     chan struct{}
}

func newRebuildWorker(rebuild func(context.Context)) *rebuildWorker {
	return &rebuildWorker{
		requests: make(chan struct{}, 1),
		rebuild:  rebuild,
		done:     make(chan struct{}),
	}
}

// request asks for a rebuild without blocking.
func (w *rebuildWorker) request() {
	select {
	case w.requests <- struct{}{}:
	default:
	}
}

// start runs the worker until ctx is done.
func (w *rebuildWorker) start(ctx context.Context) {
	go func() {
		defer close(w.done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.requests:
				w.rebuild(ctx)
			}
		}
	}()
}

// wait blocks until the worker goroutine has returned.
func (w *rebuildWorker) wait() { <-w.done }
