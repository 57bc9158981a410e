package cupid

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/mohamine831/cupid-nuitee/internal/adapters/observability"
)

const (
	fetchTimeout = 30 * time.Second // property, translation, review calls
	probeTimeout = 10 * time.Second // connectivity probes

	propertyRetries = 3 // retries after the first attempt
	childRetries    = 2 // translations and reviews

	backoffBase = time.Second
)

// StatusError is a non-2xx upstream response, kept with its body for
// diagnostics.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Code, e.Body)
}

type Client struct {
	base string
	key  string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: base,
		key:  key,
		// per-attempt deadlines come from the request context
		hc: &http.Client{},
		rl: rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

func (c *Client) GetProperty(ctx context.Context, id int64) (map[string]any, error) {
	var out map[string]any
	url := fmt.Sprintf("%s/property/%d", c.base, id)
	if err := c.get(ctx, "property", url, fetchTimeout, propertyRetries, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTranslation returns (nil, nil) when the upstream has no translation for
// the language.
func (c *Client) GetTranslation(ctx context.Context, id int64, lang string) (map[string]any, error) {
	var out map[string]any
	url := fmt.Sprintf("%s/property/%d/lang/%s", c.base, id, lang)
	if err := c.get(ctx, "translation", url, fetchTimeout, childRetries, &out); err != nil {
		if se, ok := err.(*StatusError); ok && se.Code == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

func (c *Client) GetReviews(ctx context.Context, id int64, count int) ([]map[string]any, error) {
	var out []map[string]any
	url := fmt.Sprintf("%s/property/reviews/%d/%d", c.base, id, count)
	if err := c.get(ctx, "reviews", url, fetchTimeout, childRetries, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Ping probes the base URL. Used by the ingestor on startup.
func (c *Client) Ping(ctx context.Context) error {
	var out any
	return c.get(ctx, "ping", c.base+"/", probeTimeout, 0, &out)
}

// get performs a GET with client-side rate limiting, per-attempt timeout,
// and retries on transient failures (network errors, 429, 5xx).
func (c *Client) get(ctx context.Context, endpoint, url string, timeout time.Duration, retries int, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			if !sleepCtx(ctx, backoff(attempt-1)) {
				return ctx.Err()
			}
		}

		status, err := c.do(ctx, endpoint, url, timeout, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !transient(status, err) {
			return err
		}
	}
	return lastErr
}

func (c *Client) do(ctx context.Context, endpoint, url string, timeout time.Duration, out any) (int, error) {
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(actx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("X-API-Key", c.key)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "cupid-nuitee/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("cupid", endpoint, 0, time.Since(start))
		if ctx.Err() != nil && ctx.Err() == context.Canceled {
			return 0, ctx.Err()
		}
		return 0, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("cupid", endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return resp.StatusCode, &StatusError{Code: resp.StatusCode, Body: string(b)}
	}
	return resp.StatusCode, json.NewDecoder(resp.Body).Decode(out)
}

// transient reports whether a failed attempt is worth retrying.
func transient(status int, err error) bool {
	if status == 0 {
		// network-level failure; a dead parent context is not retryable
		return err != context.Canceled
	}
	return status == http.StatusTooManyRequests || status >= 500
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// backoff returns an exponential delay with concurrency-safe jitter.
// i = retry attempt (0,1,2,...): 1s, 2s, 4s... plus up to +50%.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * backoffBase
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
