package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FireFunc is invoked with a consumed event when it comes due.
type FireFunc func(ctx context.Context, ev Event)

// MemoryClient is an in-process scheduler for development and tests. It
// mirrors the hosted service's contract: one live event per (slug, key),
// deadline fixed at creation, event consumed when fired.
type MemoryClient struct {
	mu     sync.Mutex
	events map[string]*Event
	fire   FireFunc
	now    func() time.Time
}

// MemoryOption configures a MemoryClient.
type MemoryOption func(*MemoryClient)

// WithFireFunc sets the callback invoked for due events.
func WithFireFunc(fn FireFunc) MemoryOption {
	return func(m *MemoryClient) { m.fire = fn }
}

// WithClock overrides the time source, letting tests control when events
// become due.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *MemoryClient) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemoryClient creates an in-process scheduler client.
func NewMemoryClient(opts ...MemoryOption) *MemoryClient {
	m := &MemoryClient{
		events: make(map[string]*Event),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MemoryClient) Get(ctx context.Context, slug, key string) (*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ev, ok := m.events[eventKey(slug, key)]
	if !ok {
		return nil, nil
	}
	copied := *ev
	return &copied, nil
}

func (m *MemoryClient) Add(ctx context.Context, slug, key string, job Job) (*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ev := &Event{
		ID:      uuid.New().String(),
		Slug:    slug,
		Key:     key,
		RunAt:   m.now().Add(job.RunIn),
		Request: job.Request,
	}
	m.events[eventKey(slug, key)] = ev

	copied := *ev
	return &copied, nil
}

func (m *MemoryClient) Update(ctx context.Context, id string, update JobUpdate) (*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ev := range m.events {
		if ev.ID == id {
			// Deadline untouched: only the callback body is replaced.
			ev.Request.Body = update.Body
			copied := *ev
			return &copied, nil
		}
	}
	return nil, ErrEventNotFound
}

// FireDue consumes every event whose deadline has passed and invokes the
// fire callback for each. Returns the number of events fired.
func (m *MemoryClient) FireDue(ctx context.Context) int {
	m.mu.Lock()
	now := m.now()
	var due []Event
	for k, ev := range m.events {
		if !ev.RunAt.After(now) {
			due = append(due, *ev)
			delete(m.events, k)
		}
	}
	m.mu.Unlock()

	if m.fire != nil {
		for _, ev := range due {
			m.fire(ctx, ev)
		}
	}
	return len(due)
}

// Fire consumes the event for (slug, key) immediately regardless of its
// deadline. Returns false when no live event exists.
func (m *MemoryClient) Fire(ctx context.Context, slug, key string) bool {
	m.mu.Lock()
	ev, ok := m.events[eventKey(slug, key)]
	if ok {
		delete(m.events, eventKey(slug, key))
	}
	m.mu.Unlock()

	if !ok {
		return false
	}
	if m.fire != nil {
		m.fire(ctx, *ev)
	}
	return true
}

// Run polls for due events until the context is canceled.
func (m *MemoryClient) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.FireDue(ctx)
		}
	}
}

func eventKey(slug, key string) string {
	return slug + "\x00" + key
}
