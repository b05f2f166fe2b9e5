package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// PushConfig holds the push relay configuration. The relay fans the
// message out to APNS and GCM behind one endpoint.
type PushConfig struct {
	// RelayURL is the batch send endpoint of the push relay.
	RelayURL string `env:"PUSH_RELAY_URL,required"`

	// APIKey is sent as a bearer token when set.
	APIKey string `env:"PUSH_API_KEY"`

	// Timeout bounds each relay call.
	Timeout time.Duration `env:"PUSH_TIMEOUT" envDefault:"15s"`
}

// PushSender sends the push channel payload through the relay and
// reports per-recipient outcomes (batch-ack shape).
type PushSender struct {
	client *http.Client
	cfg    PushConfig
}

// NewPushSender creates a push relay sender.
func NewPushSender(cfg PushConfig) (*PushSender, error) {
	if cfg.RelayURL == "" {
		return nil, fmt.Errorf("%w: RelayURL is required", ErrInvalidConfig)
	}
	u, err := url.Parse(cfg.RelayURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: RelayURL must be an http(s) URL", ErrInvalidConfig)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &PushSender{
		client: &http.Client{Timeout: timeout},
		cfg:    cfg,
	}, nil
}

// Send posts the batch to the relay. Recipients are user ids; the relay
// owns device-token lookup and the APNS/GCM wire protocols.
func (s *PushSender) Send(ctx context.Context, recipients []string, payload map[string]any) (BatchReceipt, error) {
	body, err := json.Marshal(map[string]any{
		"user_ids":     recipients,
		"notification": payload,
	})
	if err != nil {
		return BatchReceipt{}, fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.RelayURL, bytes.NewReader(body))
	if err != nil {
		return BatchReceipt{}, fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return BatchReceipt{}, fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return BatchReceipt{}, fmt.Errorf("%w: relay status %d: %s", ErrSendFailed, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var receipt BatchReceipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return BatchReceipt{}, fmt.Errorf("%w: decode receipt: %w", ErrSendFailed, err)
	}
	return receipt, nil
}
