package notify

import (
	"context"
	"log/slog"

	"github.com/marketfeed/notifykit/pkg/async"
	"github.com/marketfeed/notifykit/pkg/logger"
	"github.com/marketfeed/notifykit/pkg/notify/channel"
)

// Senders bundles the four channel send primitives. A nil sender
// disables its channel; resolved recipients for it are dropped with a
// warning instead of failing the dispatch.
type Senders struct {
	Email  channel.Sender
	SMS    channel.Sender
	Fresco channel.Sender
	Push   channel.BatchSender
}

// Dispatcher fans a resolved delivery plan out to the channel senders
// concurrently, with per-channel failure isolation.
type Dispatcher struct {
	senders Senders
	logger  *slog.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatcherLogger sets the logger for the Dispatcher.
func WithDispatcherLogger(log *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if log != nil {
			d.logger = log
		}
	}
}

// NewDispatcher creates a Dispatcher over the given senders.
func NewDispatcher(senders Senders, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		senders: senders,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch sends each non-empty channel list through its sender. All
// four sends run concurrently; a failing channel settles into its own
// result slot and never affects siblings. Channels with no recipients
// keep a nil slot and no sender call.
func (d *Dispatcher) Dispatch(ctx context.Context, resolved *Resolved) DispatchResult {
	var result DispatchResult

	emailFut := d.sendSimple(ctx, ChannelEmail, d.senders.Email, resolved.Email, resolved.Payload.Email)
	smsFut := d.sendSimple(ctx, ChannelSMS, d.senders.SMS, resolved.SMS, resolved.Payload.SMS)
	frescoFut := d.sendSimple(ctx, ChannelFresco, d.senders.Fresco, resolved.Fresco, resolved.Payload.Fresco)
	pushFut := d.sendBatch(ctx, resolved.Push, resolved.Payload.Push)

	if emailFut != nil {
		result.Email, _ = emailFut.Await()
	}
	if smsFut != nil {
		result.SMS, _ = smsFut.Await()
	}
	if frescoFut != nil {
		result.Fresco, _ = frescoFut.Await()
	}
	if pushFut != nil {
		result.Push, _ = pushFut.Await()
	}

	return result
}

// sendSimple starts a simple-ack send. Returns nil when the channel has
// no recipients or no sender; the dispatch slot then stays nil.
func (d *Dispatcher) sendSimple(ctx context.Context, ch Channel, sender channel.Sender, recipients []string, payload map[string]any) *async.Future[*ChannelResult] {
	if len(recipients) == 0 {
		return nil
	}
	if sender == nil {
		d.logger.WarnContext(ctx, "no sender configured for channel, dropping recipients",
			logger.Channel(string(ch)),
			logger.Recipients(len(recipients)),
		)
		return nil
	}

	return async.Go(ctx, func(ctx context.Context) (*ChannelResult, error) {
		res := &ChannelResult{Channel: ch}
		if err := sender.Send(ctx, recipients, payload); err != nil {
			// The failure settles into this channel's slot only.
			res.Err = err
			res.Failed = recipients
			d.logger.ErrorContext(ctx, "channel send failed",
				logger.Channel(string(ch)),
				logger.Recipients(len(recipients)),
				logger.Error(err),
			)
			return res, nil
		}
		res.Sent = recipients
		return res, nil
	})
}

// sendBatch starts the batch-ack push send.
func (d *Dispatcher) sendBatch(ctx context.Context, recipients []string, payload map[string]any) *async.Future[*ChannelResult] {
	if len(recipients) == 0 {
		return nil
	}
	if d.senders.Push == nil {
		d.logger.WarnContext(ctx, "no sender configured for channel, dropping recipients",
			logger.Channel(string(ChannelPush)),
			logger.Recipients(len(recipients)),
		)
		return nil
	}

	return async.Go(ctx, func(ctx context.Context) (*ChannelResult, error) {
		res := &ChannelResult{Channel: ChannelPush}
		receipt, err := d.senders.Push.Send(ctx, recipients, payload)
		if err != nil {
			res.Err = err
			res.Failed = recipients
			d.logger.ErrorContext(ctx, "channel send failed",
				logger.Channel(string(ChannelPush)),
				logger.Recipients(len(recipients)),
				logger.Error(err),
			)
			return res, nil
		}
		res.Sent = receipt.Sent
		res.Failed = receipt.Failed
		return res, nil
	})
}
