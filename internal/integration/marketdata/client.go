// Package marketdata implements the exchange rate providers and the rates
// cache.
package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"github.com/sony/gobreaker/v2"
)

const (
	defaultTimeout = 5 * time.Second
	fetchAttempts  = 2
	retryDelay     = 200 * time.Millisecond
	maxBodyBytes   = 1 << 20
)

// statusError is returned for non-2xx answers.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

// jsonClient performs GET requests decoding JSON answers. Each request is
// retried once and guarded by a circuit breaker shared by every request of
// the same provider.
type jsonClient struct {
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func newJSONClient(name string, timeout time.Duration) *jsonClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &jsonClient{
		http: &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
	}
}

func (c *jsonClient) getJSON(ctx context.Context, url string, out any) error {
	var body []byte
	err := retry.Do(
		func() error {
			var err error
			body, err = c.breaker.Execute(func() ([]byte, error) {
				return c.get(ctx, url)
			})
			return err
		},
		retry.Context(ctx),
		retry.Attempts(fetchAttempts),
		retry.Delay(retryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
	)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *jsonClient) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "smartwallet/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &statusError{code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// retryable reports whether another attempt may succeed. Client errors and
// an open breaker are final.
func retryable(err error) bool {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500 || se.code == http.StatusTooManyRequests
	}
	return true
}
