package backend

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ClientConfig configures the retrying HTTP client used by Remote.
//
// Zero values get defaults: Timeout 30s, InitialBackoff 200ms, MaxBackoff 5s.
type ClientConfig struct {
	// Timeout is the per-attempt timeout of fetches. The process call has
	// no local timeout.
	Timeout time.Duration
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	// InitialBackoff is doubled after every retry, up to MaxBackoff.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	// Transport overrides http.DefaultTransport (tests).
	Transport http.RoundTripper
}

type client struct {
	http *http.Client
	// once has no timeout and never retries; it carries non-idempotent calls.
	once           *http.Client
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *zap.Logger
}

func newClient(cfg ClientConfig, logger *zap.Logger) *client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 200 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 5 * time.Second
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &client{
		http:           &http.Client{Timeout: cfg.Timeout, Transport: transport},
		once:           &http.Client{Transport: transport},
		maxRetries:     cfg.MaxRetries,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger,
	}
}

// do sends an idempotent request, retrying transport errors, 429 and 5xx
// replies. The caller closes the response.
func (c *client) do(ctx context.Context, method, url string, body []byte, contentType string) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := c.send(ctx, c.http, method, url, body, contentType)
		switch {
		case err != nil:
			lastErr = err
		case isRetryableStatus(resp.StatusCode):
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("retryable status %d from %s %s", resp.StatusCode, method, url)
		default:
			return resp, nil
		}

		if attempt == c.maxRetries {
			break
		}
		wait := backoffDuration(c.initialBackoff, attempt, c.maxBackoff)
		c.logger.Debug("Retrying backend request",
			zap.String("method", method),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", wait),
			zap.Error(lastErr))
		if err := sleepContext(ctx, wait); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

// post sends a non-idempotent POST exactly once, bounded only by ctx.
// The caller closes the response.
func (c *client) post(ctx context.Context, url string, body []byte, contentType string) (*http.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.send(ctx, c.once, http.MethodPost, url, body, contentType)
}

func (c *client) send(ctx context.Context, hc *http.Client, method, url string, body []byte, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return hc.Do(req)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || (code >= 500 && code <= 599)
}

// backoffDuration returns initial * 2^attempt, clamped to max.
func backoffDuration(initial time.Duration, attempt int, max time.Duration) time.Duration {
	d := initial << attempt
	if d <= 0 || d > max {
		return max
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
