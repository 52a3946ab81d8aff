package publisher

import (
	"context"
	"time"
)

// RunEvent announces a completed pipeline run
type RunEvent struct {
	RunID      string
	Records    int
	Table      string
	FinishedAt time.Time
}

// Publisher represents a service for announcing pipeline runs
type Publisher interface {
	// Publish appends a run event to the stream
	Publish(ctx context.Context, event RunEvent) error

	// Close closes the publisher connection
	Close() error
}

// NopPublisher discards every event
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, RunEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
