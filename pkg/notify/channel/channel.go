package channel

import "context"

// Sender is the simple-ack send primitive: delivery either succeeds for
// the batch or fails with an error. Email, SMS and the in-app feed use
// this shape.
type Sender interface {
	Send(ctx context.Context, recipients []string, payload map[string]any) error
}

// BatchSender is the batch-ack send primitive used by push: the provider
// reports per-recipient outcomes instead of a single verdict.
type BatchSender interface {
	Send(ctx context.Context, recipients []string, payload map[string]any) (BatchReceipt, error)
}

// BatchReceipt lists per-recipient outcomes from a batch-ack provider.
type BatchReceipt struct {
	Sent   []string `json:"sent"`
	Failed []string `json:"failed"`
}
