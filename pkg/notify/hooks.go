package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/marketfeed/notifykit/pkg/logger"
)

// HookFunc handles one fired coalesced event: it receives the last
// merged payload for its notification type and typically builds a Spec
// and calls Notify.
type HookFunc func(ctx context.Context, fields map[string]any) error

// Hooks is the receiving end of the coalescing webhook contract: the
// scheduler posts a fired event's merged payload to /hooks/{type}, and
// the registered handler for that type runs it.
type Hooks struct {
	mu       sync.RWMutex
	handlers map[string]HookFunc
	logger   *slog.Logger
}

// HooksOption configures a Hooks registry.
type HooksOption func(*Hooks)

// WithHooksLogger sets the logger for the Hooks registry.
func WithHooksLogger(log *slog.Logger) HooksOption {
	return func(h *Hooks) {
		if log != nil {
			h.logger = log
		}
	}
}

// NewHooks creates an empty hook registry.
func NewHooks(opts ...HooksOption) *Hooks {
	h := &Hooks{
		handlers: make(map[string]HookFunc),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle registers the handler for a notification type, replacing any
// previous registration.
func (h *Hooks) Handle(notifType string, fn HookFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[notifType] = fn
}

// Dispatch runs the registered handler for notifType with the given
// fields.
func (h *Hooks) Dispatch(ctx context.Context, notifType string, fields map[string]any) error {
	h.mu.RLock()
	fn, ok := h.handlers[notifType]
	h.mu.RUnlock()

	if !ok {
		return ErrUnknownHookType
	}
	return fn(ctx, fields)
}

// Router mounts the webhook endpoint the scheduler posts fired events
// to. The body is the event's merged fields; its schema is owned by the
// handler registered for the type.
func (h *Hooks) Router() chi.Router {
	r := chi.NewRouter()
	r.Post("/hooks/{type}", h.serveHook)
	return r
}

func (h *Hooks) serveHook(w http.ResponseWriter, r *http.Request) {
	notifType := chi.URLParam(r, "type")

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	err := h.Dispatch(r.Context(), notifType, fields)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, ErrUnknownHookType):
		h.logger.WarnContext(r.Context(), "webhook for unregistered notification type",
			logger.EventType(notifType),
		)
		http.Error(w, "unknown notification type", http.StatusNotFound)
	default:
		h.logger.ErrorContext(r.Context(), "hook handler failed",
			logger.EventType(notifType),
			logger.Error(err),
		)
		http.Error(w, "handler failed", http.StatusInternalServerError)
	}
}
