package coalesce

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/marketfeed/notifykit/pkg/logger"
	"github.com/marketfeed/notifykit/pkg/scheduler"
)

// Coalescer turns a stream of notify-eventually calls into at most one
// pending scheduled event per (type, key), merging payload fields of
// later calls into the pending event until it fires.
type Coalescer struct {
	client scheduler.Client
	cfg    Config
	keys   *keyedLock
	logger *slog.Logger
}

// Option configures a Coalescer.
type Option func(*Coalescer)

// WithLogger sets the logger for the Coalescer.
func WithLogger(log *slog.Logger) Option {
	return func(c *Coalescer) {
		if log != nil {
			c.logger = log
		}
	}
}

// New creates a Coalescer backed by the given scheduler client.
func New(client scheduler.Client, cfg Config, opts ...Option) (*Coalescer, error) {
	if client == nil {
		return nil, errors.New("coalesce: scheduler client cannot be nil")
	}
	if cfg.DefaultDelay <= 0 {
		cfg.DefaultDelay = 900 * time.Second
	}

	c := &Coalescer{
		client: client,
		cfg:    cfg,
		keys:   newKeyedLock(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SendParams describes one notify-eventually call.
type SendParams struct {
	// Type is the notification type; it selects the webhook handler the
	// scheduler posts to when the event fires.
	Type string
	// Key scopes coalescing: sends sharing (Type, Key) merge into one
	// pending event.
	Key string
	// Delay is the coalescing window. Only the first send for a (Type,
	// Key) pair uses it; later sends never move the deadline. Zero means
	// the configured default.
	Delay time.Duration
	// Fields is the payload delivered to the webhook handler, after any
	// merging with a pending event's stored payload.
	Fields map[string]any
	// Behaviors declares how Fields combine with a pending payload.
	Behaviors MergeBehaviors
}

// Send creates or merges the pending event for (params.Type, params.Key).
//
// The first send for a pair fixes the delivery deadline; every later
// send only reshapes the stored payload. Sends for the same pair are
// serialized on a per-key lock so the scheduler's non-atomic
// get/add/update surface cannot lose an update.
func (c *Coalescer) Send(ctx context.Context, params SendParams) error {
	if params.Type == "" {
		return ErrMissingType
	}
	if params.Key == "" {
		return ErrMissingKey
	}

	if c.cfg.Disabled {
		c.logger.DebugContext(ctx, "scheduling disabled, dropping coalesced send",
			logger.EventType(params.Type),
			logger.EventKey(params.Key),
		)
		return nil
	}

	unlock := c.keys.lock(params.Type + "\x00" + params.Key)
	defer unlock()

	pending, err := c.client.Get(ctx, params.Type, params.Key)
	if err != nil {
		return errors.Join(ErrScheduling, err)
	}

	if pending == nil {
		delay := params.Delay
		if delay <= 0 {
			delay = c.cfg.DefaultDelay
		}

		_, err := c.client.Add(ctx, params.Type, params.Key, scheduler.Job{
			RunIn: delay,
			Request: scheduler.Request{
				Href:   c.hookURL(params.Type),
				Method: http.MethodPost,
				Body:   params.Fields,
			},
		})
		if err != nil {
			return errors.Join(ErrScheduling, err)
		}

		c.logger.DebugContext(ctx, "created coalesced event",
			logger.EventType(params.Type),
			logger.EventKey(params.Key),
			slog.Duration("delay", delay),
		)
		return nil
	}

	merged := mergeFields(pending.Request.Body, params.Fields, params.Behaviors)

	if _, err := c.client.Update(ctx, pending.ID, scheduler.JobUpdate{Body: merged}); err != nil {
		return errors.Join(ErrScheduling, err)
	}

	c.logger.DebugContext(ctx, "merged into pending coalesced event",
		logger.EventType(params.Type),
		logger.EventKey(params.Key),
	)
	return nil
}

func (c *Coalescer) hookURL(typ string) string {
	return strings.TrimRight(c.cfg.HookBaseURL, "/") + "/hooks/" + url.PathEscape(typ)
}
