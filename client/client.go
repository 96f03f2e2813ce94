// Package client talks to the prediction service on behalf of the form.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"sepsisguard/schema"
)

// maximum response body kept in memory
const maxResponseBytes = 1 << 20

// StatusError is returned for any non-200 answer. Body is kept verbatim.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Error: %d - %s", e.StatusCode, e.Body)
}

// Client issues one request per call and never retries.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the total request timeout of the default http.Client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		cfg := DefaultTransportConfig()
		cfg.Timeout = timeout
		c.http = NewHTTPClient(cfg)
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New builds a Client for the service at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: missing host", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    NewHTTPClient(DefaultTransportConfig()),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

// Predict posts fv to /predict/{model} and decodes the answer.
func (c *Client) Predict(ctx context.Context, model string, fv schema.FeatureVector) (schema.PredictionResponse, error) {
	var out schema.PredictionResponse
	if strings.TrimSpace(model) == "" {
		return out, errors.New("model name is required")
	}

	payload, err := json.Marshal(fv)
	if err != nil {
		return out, fmt.Errorf("encode request: %w", err)
	}

	endpoint := c.baseURL + "/predict/" + url.PathEscape(model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return out, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("decode response: %w", err)
	}
	if out.Prediction == "" {
		return out, errors.New("decode response: missing prediction")
	}
	return out, nil
}

// Models fetches the service's model inventory.
func (c *Client) Models(ctx context.Context) (schema.ModelsResponse, error) {
	var out schema.ModelsResponse

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return out, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Error(err),
		)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("request completed",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// AvailableModels returns the names the service can serve right now, or
// fallback when the inventory cannot be fetched or is empty.
func (c *Client) AvailableModels(ctx context.Context, fallback []string) []string {
	inv, err := c.Models(ctx)
	if err != nil {
		c.logger.Info("model inventory unavailable, using configured list", zap.Error(err))
		return fallback
	}
	names := make([]string, 0, len(inv.Models))
	for _, m := range inv.Models {
		if m.Available {
			names = append(names, m.Name)
		}
	}
	if len(names) == 0 {
		return fallback
	}
	return names
}
