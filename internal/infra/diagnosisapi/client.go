package diagnosisapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bryanwahyu/triagedesk/internal/domain/diagnosis"
)

const (
	maxBodyBytes  = 1 << 20
	maxErrorBytes = 512
)

// Client performs one POST per Diagnose call. It never retries.
type Client struct {
	baseURL string
	schema  Schema
	httpc   *http.Client
	log     *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default client (tests inject httptest clients).
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.httpc = h }
}

func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) { c.log = l }
}

// NewClient builds a client for baseURL. timeout bounds each call end to end.
func NewClient(baseURL string, schema Schema, timeout time.Duration, opts ...ClientOption) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrNoBaseURL
	}
	if schema == nil {
		return nil, fmt.Errorf("diagnosis api: schema is required")
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	c := &Client{
		baseURL: baseURL,
		schema:  schema,
		httpc:   &http.Client{Timeout: timeout},
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Schema returns the adapter this client speaks.
func (c *Client) Schema() Schema { return c.schema }

// BaseURL returns the resolved collaborator address.
func (c *Client) BaseURL() string { return c.baseURL }

// Diagnose implements diagnosis.Diagnoser.
func (c *Client) Diagnose(ctx context.Context, req diagnosis.SymptomRequest) (*diagnosis.Response, error) {
	payload, err := c.schema.Encode(req)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", c.schema.Name(), err)
	}

	endpoint := c.baseURL + c.schema.Path()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &diagnosis.TransportError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		c.log.Warn("diagnosis api unreachable", zap.String("url", endpoint), zap.Error(err))
		return nil, &diagnosis.TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &diagnosis.TransportError{Err: fmt.Errorf("read body: %w", err)}
	}

	c.log.Debug("diagnosis api call",
		zap.String("schema", c.schema.Name()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &diagnosis.TransportError{StatusCode: resp.StatusCode, Body: truncate(string(body))}
	}
	return c.schema.Decode(body)
}

// Ping checks GET /health on the collaborator.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return &diagnosis.TransportError{Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return &diagnosis.TransportError{Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBytes))

	if resp.StatusCode != http.StatusOK {
		return &diagnosis.TransportError{StatusCode: resp.StatusCode, Body: http.StatusText(resp.StatusCode)}
	}
	return nil
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxErrorBytes {
		return s[:maxErrorBytes] + "..."
	}
	return s
}
