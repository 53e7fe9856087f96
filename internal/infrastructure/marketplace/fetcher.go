package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"channelsync-core/internal/domain"
	"channelsync-core/internal/ports"

	"github.com/rs/zerolog"
)

// RetryConfig controls the fetcher's retry behaviour. All values are
// injectable so tests can run with near-zero delays.
type RetryConfig struct {
	// MaxRateLimitRetries is how many times a throttled (429) request is
	// retried before giving up with domain.ErrRateLimited.
	MaxRateLimitRetries int
	// RetryDelay is slept between attempts, both for throttled requests and
	// for the single retry granted to other non-2xx responses.
	RetryDelay time.Duration
}

// DefaultRetryConfig returns the production retry policy.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRateLimitRetries: 3,
		RetryDelay:          60 * time.Second,
	}
}

// Fetcher issues JSON requests against external marketplace APIs with
// rate-limit aware retries. It is stateless: all retry state is local to one
// invocation, so a single Fetcher is shared across clients and goroutines.
type Fetcher struct {
	client  *http.Client
	cfg     RetryConfig
	logger  zerolog.Logger
	metrics ports.MetricsRecorder
}

// NewFetcher creates a fetcher with the given retry policy.
func NewFetcher(cfg RetryConfig, logger zerolog.Logger, metrics ports.MetricsRecorder) *Fetcher {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Fetcher{
		client:  &http.Client{Timeout: 30 * time.Second},
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
	}
}

// GetJSON issues a GET and decodes the 2xx response body into out.
func (f *Fetcher) GetJSON(ctx context.Context, url string, headers map[string]string, out any) error {
	return f.do(ctx, http.MethodGet, url, headers, nil, out)
}

// PostJSON issues a POST with a JSON body and decodes the 2xx response body
// into out.
func (f *Fetcher) PostJSON(ctx context.Context, url string, headers map[string]string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}
	return f.do(ctx, http.MethodPost, url, headers, payload, out)
}

func (f *Fetcher) do(ctx context.Context, method, url string, headers map[string]string, body []byte, out any) error {
	rateLimitRetries := 0
	serverRetried := false

	for {
		status, respBody, err := f.once(ctx, method, url, headers, body)
		if err != nil {
			return err
		}

		switch {
		case status == http.StatusTooManyRequests:
			if rateLimitRetries >= f.cfg.MaxRateLimitRetries {
				return fmt.Errorf("%w: %s after %d retries", domain.ErrRateLimited, url, rateLimitRetries)
			}
			rateLimitRetries++
			f.metrics.RateLimitRetry(url)
			f.logger.Warn().
				Str("url", url).
				Int("retry", rateLimitRetries).
				Dur("delay", f.cfg.RetryDelay).
				Msg("Throttled by upstream API, backing off")
			if err := sleep(ctx, f.cfg.RetryDelay); err != nil {
				return err
			}
			continue

		case status < 200 || status > 299:
			// Non-throttling failures get exactly one retry.
			if serverRetried {
				return &domain.FetchError{StatusCode: status, Body: string(respBody)}
			}
			serverRetried = true
			f.logger.Warn().
				Str("url", url).
				Int("status", status).
				Msg("Upstream request failed, retrying once")
			if err := sleep(ctx, f.cfg.RetryDelay); err != nil {
				return err
			}
			continue
		}

		if out == nil {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
		}
		return nil
	}
}

func (f *Fetcher) once(ctx context.Context, method, url string, headers map[string]string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

// sleep waits for d or until the context is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
