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

// SMSConfig holds the SMS gateway configuration.
type SMSConfig struct {
	// GatewayURL is the JSON send endpoint of the SMS gateway.
	GatewayURL string `env:"SMS_GATEWAY_URL,required"`

	// APIKey is sent as a bearer token when set.
	APIKey string `env:"SMS_API_KEY"`

	// SenderID shown to recipients where the carrier supports it.
	SenderID string `env:"SMS_SENDER_ID" envDefault:"Fresco"`

	// Timeout bounds each gateway call.
	Timeout time.Duration `env:"SMS_TIMEOUT" envDefault:"10s"`
}

// SMSSender sends the sms channel payload through a JSON HTTP gateway in
// a single batched call.
type SMSSender struct {
	client *http.Client
	cfg    SMSConfig
}

// NewSMSSender creates an SMS gateway sender.
func NewSMSSender(cfg SMSConfig) (*SMSSender, error) {
	if cfg.GatewayURL == "" {
		return nil, fmt.Errorf("%w: GatewayURL is required", ErrInvalidConfig)
	}
	u, err := url.Parse(cfg.GatewayURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: GatewayURL must be an http(s) URL", ErrInvalidConfig)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &SMSSender{
		client: &http.Client{Timeout: timeout},
		cfg:    cfg,
	}, nil
}

// Send posts one batch to the gateway. The payload section carries the
// message under "message".
func (s *SMSSender) Send(ctx context.Context, recipients []string, payload map[string]any) error {
	message, _ := payload["message"].(string)
	if message == "" {
		return fmt.Errorf("%w: message", ErrMissingPayloadField)
	}

	body, err := json.Marshal(map[string]any{
		"to":      recipients,
		"from":    s.cfg.SenderID,
		"message": message,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.GatewayURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: gateway status %d: %s", ErrSendFailed, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}
