package channel

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DevSender implements both send shapes for local development: each
// delivery is written as a JSON file instead of hitting a provider.
type DevSender struct {
	dir  string
	name string
}

// NewDevSender creates a development sender that records deliveries for
// the named channel under dir.
func NewDevSender(dir, name string) *DevSender {
	return &DevSender{dir: dir, name: name}
}

type devRecord struct {
	Channel    string         `json:"channel"`
	Timestamp  string         `json:"timestamp"`
	Recipients []string       `json:"recipients"`
	Payload    map[string]any `json:"payload"`
}

// Send records the delivery to disk.
func (d *DevSender) Send(ctx context.Context, recipients []string, payload map[string]any) error {
	return d.write(recipients, payload)
}

// AsBatch adapts the dev sender to the batch-ack shape, acknowledging
// every recipient as sent.
func (d *DevSender) AsBatch() BatchSender {
	return devBatchSender{d}
}

type devBatchSender struct {
	*DevSender
}

func (d devBatchSender) Send(ctx context.Context, recipients []string, payload map[string]any) (BatchReceipt, error) {
	if err := d.write(recipients, payload); err != nil {
		return BatchReceipt{}, err
	}
	return BatchReceipt{Sent: recipients}, nil
}

func (d *DevSender) write(recipients []string, payload map[string]any) error {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create directory: %w", ErrSendFailed, err)
	}

	now := time.Now()
	record := devRecord{
		Channel:    d.name,
		Timestamp:  now.Format(time.RFC3339),
		Recipients: recipients,
		Payload:    payload,
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal record: %w", ErrSendFailed, err)
	}

	path := filepath.Join(d.dir, fmt.Sprintf("%s_%s.json", now.Format("2006_01_02_150405.000"), d.name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write record: %w", ErrSendFailed, err)
	}
	return nil
}
