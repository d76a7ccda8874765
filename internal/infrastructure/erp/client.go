package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pazarhub/backend/internal/domain/outbox"
)

// maxResponseSize bounds how much of an ERP response is read (1MB).
const maxResponseSize = 1 * 1024 * 1024

var (
	ErrNotConfigured = errors.New("erp: api key or secret missing")
	// ErrUnavailable covers connection failures and 5xx responses; the outbox
	// retries these.
	ErrUnavailable = errors.New("erp: temporarily unavailable")
)

// Config holds the ERP endpoint settings.
type Config struct {
	BaseURL        string
	APIKey         string
	APISecret      string
	TimeoutSeconds int
	// PaymentType is the ERP-side payment type code stamped on forwarded
	// orders. Configurable per installation rather than hardcoded.
	PaymentType int
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.APIKey == "" || c.APISecret == "" {
		return ErrNotConfigured
	}
	if c.BaseURL == "" {
		return errors.New("erp: base URL required")
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// Client submits canonical orders to the downstream ERP over its JSON API.
// Implements the outbox.ERPClient port.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates an ERP client.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// createOrderResponse is the ERP acknowledgment envelope.
type createOrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Result  struct {
		Code string `json:"code"`
	} `json:"result"`
}

// SubmitOrder forwards one order payload. The idempotency key travels in a
// header so the ERP can deduplicate retried submissions.
func (c *Client) SubmitOrder(ctx context.Context, payload []byte, idempotencyKey string) (string, error) {
	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/web_servis/order/create"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("erp: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.cfg.APIKey)
	req.Header.Set("apisecret", c.cfg.APISecret)
	req.Header.Set("Idempotency-Key", idempotencyKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("erp: failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode >= 500:
		return "", fmt.Errorf("%w: HTTP %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode == http.StatusUnprocessableEntity || resp.StatusCode == http.StatusBadRequest:
		// The ERP refused the payload; retrying cannot help.
		return "", fmt.Errorf("%w: HTTP %d: %s", outbox.ErrDownstreamRejected, resp.StatusCode, truncate(body, 200))
	case resp.StatusCode >= 400:
		return "", fmt.Errorf("%w: HTTP %d", ErrUnavailable, resp.StatusCode)
	}

	var ack createOrderResponse
	if err := json.Unmarshal(body, &ack); err != nil {
		return "", fmt.Errorf("erp: invalid response: %w", err)
	}
	if !ack.Success {
		return "", fmt.Errorf("%w: %s", outbox.ErrDownstreamRejected, ack.Message)
	}
	if ack.Result.Code == "" {
		return "", fmt.Errorf("erp: acknowledgment missing reference code")
	}
	return ack.Result.Code, nil
}

// CheckConnection verifies credentials with a light list call.
func (c *Client) CheckConnection(ctx context.Context) error {
	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/web_servis/order/filter?limit=1"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("erp: failed to create request: %w", err)
	}
	req.Header.Set("apikey", c.cfg.APIKey)
	req.Header.Set("apisecret", c.cfg.APISecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrNotConfigured
	case resp.StatusCode >= 400:
		return fmt.Errorf("%w: HTTP %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// Ensure Client implements the ERPClient port
var _ outbox.ERPClient = (*Client)(nil)
