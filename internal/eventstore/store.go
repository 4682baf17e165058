// Package eventstore persists build events in SQLite and projects them into
// a build history.
package eventstore

import (
	"context"
	"time"
)

// Store persists and retrieves events.
type Store interface {
	// Append adds an event. A zero event timestamp is replaced with the current time.
	Append(ctx context.Context, event Event) error

	// GetByBuildID retrieves all events for a specific build in append order.
	GetByBuildID(ctx context.Context, buildID string) ([]Event, error)

	// GetRange retrieves events whose timestamp lies within [start, end].
	GetRange(ctx context.Context, start, end time.Time) ([]Event, error)

	Close() error
}
