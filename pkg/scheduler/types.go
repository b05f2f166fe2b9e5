package scheduler

import (
	"context"
	"time"
)

// Event is a delayed job held by the scheduling service, identified by
// its (slug, key) pair. At most one live event exists per pair.
type Event struct {
	ID      string    `json:"id"`
	Slug    string    `json:"slug"`
	Key     string    `json:"key"`
	RunAt   time.Time `json:"run_at"`
	Request Request   `json:"request"`
}

// Request describes the HTTP callback the scheduler performs when the
// event fires.
type Request struct {
	Href    string            `json:"href"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    map[string]any    `json:"body,omitempty"`
}

// Job is the payload for creating a new event. RunIn fixes the delivery
// deadline relative to creation time.
type Job struct {
	RunIn   time.Duration `json:"run_in"`
	Request Request       `json:"request"`
}

// JobUpdate mutates an existing event. It deliberately carries no
// run_in/run_at field: updates may only replace the callback body, never
// move the deadline set at creation.
type JobUpdate struct {
	Body map[string]any `json:"body"`
}

// Client is the scheduling-service interface consumed by the coalescer.
type Client interface {
	// Get returns the live event for (slug, key), or nil when none exists.
	Get(ctx context.Context, slug, key string) (*Event, error)

	// Add creates a new event for (slug, key).
	Add(ctx context.Context, slug, key string, job Job) (*Event, error)

	// Update replaces the callback body of an existing event.
	Update(ctx context.Context, id string, update JobUpdate) (*Event, error)
}
