package notify

import (
	"context"
	"errors"
	"log/slog"

	"github.com/marketfeed/notifykit/pkg/async"
	"github.com/marketfeed/notifykit/pkg/logger"
	"github.com/marketfeed/notifykit/pkg/prefs"
)

// Notifier is the composed entry point: resolve a spec's recipients,
// then dispatch across channels.
type Notifier struct {
	resolver   *Resolver
	dispatcher *Dispatcher
	logger     *slog.Logger
}

// NotifierOption configures a Notifier.
type NotifierOption func(*Notifier)

// WithNotifierLogger sets the logger for the Notifier and its dispatcher.
func WithNotifierLogger(log *slog.Logger) NotifierOption {
	return func(n *Notifier) {
		if log != nil {
			n.logger = log
		}
	}
}

// NewNotifier creates a Notifier over the given preference store and
// channel senders.
func NewNotifier(store prefs.Store, senders Senders, opts ...NotifierOption) (*Notifier, error) {
	resolver, err := NewResolver(store)
	if err != nil {
		return nil, err
	}

	n := &Notifier{
		resolver: resolver,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.dispatcher = NewDispatcher(senders, WithDispatcherLogger(n.logger))

	return n, nil
}

// Notify resolves and dispatches one notification. Resolution failures
// are hard errors; channel send failures are isolated into the returned
// result's per-channel slots.
func (n *Notifier) Notify(ctx context.Context, spec Spec) (DispatchResult, error) {
	resolved, err := n.resolver.Resolve(ctx, spec)
	if err != nil {
		return DispatchResult{}, err
	}

	n.logger.DebugContext(ctx, "dispatching notification",
		logger.EventType(spec.Type),
		logger.Recipients(len(resolved.Push)+len(resolved.Fresco)+len(resolved.SMS)+len(resolved.Email)),
	)

	return n.dispatcher.Dispatch(ctx, resolved), nil
}

// NotifyAll processes the specs independently and concurrently. Results
// come back in input order; there is no cross-spec atomicity. Specs that
// failed to resolve leave a zero-valued result in their slot and their
// errors are joined into the returned error.
func (n *Notifier) NotifyAll(ctx context.Context, specs []Spec) ([]DispatchResult, error) {
	futures := make([]*async.Future[DispatchResult], len(specs))
	for i, spec := range specs {
		spec := spec
		futures[i] = async.Go(ctx, func(ctx context.Context) (DispatchResult, error) {
			return n.Notify(ctx, spec)
		})
	}

	settled := async.WaitAllSettled(futures...)

	results := make([]DispatchResult, len(settled))
	var errs []error
	for i, s := range settled {
		results[i] = s.Value
		if s.Err != nil {
			errs = append(errs, s.Err)
		}
	}

	return results, errors.Join(errs...)
}
