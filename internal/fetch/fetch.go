// Package fetch performs the HTTP GETs against the upstream source: a
// fixed set of browser-like headers, bounded retries with exponential
// backoff, and a per-request timeout.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// The upstream source's access control depends on these headers being
// present, so they are constants, not configuration.
const (
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	acceptLanguage = "en-US,en;q=0.9"
	referer        = "https://cenele.com/"
)

// Error is returned when all attempts for a URL are exhausted.
type Error struct {
	URL      string
	Attempts int
	Status   int // last HTTP status, 0 when the failure was transport-level
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v (after %d attempts)", e.URL, e.Err, e.Attempts)
	}
	return fmt.Sprintf("fetch %s: HTTP %d (after %d attempts)", e.URL, e.Status, e.Attempts)
}

func (e *Error) Unwrap() error { return e.Err }

type Client struct {
	HTTP     *http.Client
	Attempts int
	// Backoff is the sleep before the first retry; it doubles after
	// each failed attempt (2s, 4s, ...).
	Backoff time.Duration
}

func NewClient() *Client {
	return &Client{
		HTTP:     &http.Client{Timeout: 30 * time.Second},
		Attempts: 3,
		Backoff:  2 * time.Second,
	}
}

// Get fetches url and returns the response body. Transport errors and
// non-2xx statuses are retried up to the attempt budget; whatever failed
// last is wrapped in *Error.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	backoff := c.Backoff
	var lastErr error
	lastStatus := 0

	for attempt := 1; attempt <= c.Attempts; attempt++ {
		body, status, err := c.once(ctx, url)
		if err == nil && status >= 200 && status < 300 {
			return body, nil
		}

		lastErr = err
		lastStatus = status
		if err == nil {
			lastErr = fmt.Errorf("unexpected status %d", status)
		}
		log.Printf("[fetch] attempt %d/%d failed for %s: %v", attempt, c.Attempts, url, lastErr)

		if attempt < c.Attempts {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, &Error{URL: url, Attempts: attempt, Status: lastStatus, Err: ctx.Err()}
			}
			backoff *= 2
		}
	}

	if lastStatus != 0 {
		return nil, &Error{URL: url, Attempts: c.Attempts, Status: lastStatus}
	}
	return nil, &Error{URL: url, Attempts: c.Attempts, Err: lastErr}
}

func (c *Client) once(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", acceptLanguage)
	req.Header.Set("Referer", referer)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}
