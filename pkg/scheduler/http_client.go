package scheduler

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

// HTTPClient talks JSON over HTTP to the hosted scheduling service.
type HTTPClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewHTTPClient creates a scheduler client with pooled connections.
// The base URL is validated eagerly so misconfiguration surfaces at
// startup rather than on the first send.
func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: BaseURL is required", ErrInvalidConfig)
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: only http and https schemes are supported", ErrInvalidConfig)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}, nil
}

// MustNewHTTPClient creates a scheduler client that panics on invalid
// config, failing fast during initialization.
func MustNewHTTPClient(cfg Config) *HTTPClient {
	c, err := NewHTTPClient(cfg)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *HTTPClient) Get(ctx context.Context, slug, key string) (*Event, error) {
	var ev Event
	found, err := c.do(ctx, http.MethodGet, c.eventURL(slug, key), nil, &ev)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &ev, nil
}

func (c *HTTPClient) Add(ctx context.Context, slug, key string, job Job) (*Event, error) {
	body := map[string]any{
		"run_in":  int64(job.RunIn / time.Second),
		"request": job.Request,
	}

	var ev Event
	if _, err := c.do(ctx, http.MethodPost, c.eventURL(slug, key), body, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func (c *HTTPClient) Update(ctx context.Context, id string, update JobUpdate) (*Event, error) {
	// Only the callback body is sent; the service keeps the original run_at.
	body := map[string]any{
		"request": map[string]any{"body": update.Body},
	}

	var ev Event
	found, err := c.do(ctx, http.MethodPatch, c.baseURL+"/events/"+url.PathEscape(id), body, &ev)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrEventNotFound
	}
	return &ev, nil
}

func (c *HTTPClient) eventURL(slug, key string) string {
	return c.baseURL + "/events/" + url.PathEscape(slug) + "/" + url.PathEscape(key)
}

// do executes one API call. Returns found=false for 404 responses so
// callers can distinguish "absent" from transport failures.
func (c *HTTPClient) do(ctx context.Context, method, rawURL string, body any, out any) (bool, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return false, fmt.Errorf("%w: marshal request: %w", ErrRequestFailed, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Response body is capped to keep error messages loggable.
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, fmt.Errorf("%w: status %d: %s", ErrRequestFailed, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return false, fmt.Errorf("%w: decode response: %w", ErrRequestFailed, err)
		}
	}
	return true, nil
}
