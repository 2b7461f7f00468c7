// Package eventstore records build history as an append-only event log in
// sqlite and projects it into build summaries.
package eventstore

import (
	"context"
	"time"
)

// Store persists and retrieves build events.
type Store interface {
	Append(ctx context.Context, ev Event) error
	GetByBuildID(ctx context.Context, buildID string) ([]Event, error)
	// GetRange returns events with start <= timestamp <= end, in insertion order.
	GetRange(ctx context.Context, start, end time.Time) ([]Event, error)
	Close() error
}

// Pruner drops old builds from a store.
type Pruner interface {
	// Prune keeps the events of the keep most recent builds.
	Prune(ctx context.Context, keep int) (int64, error)
}
