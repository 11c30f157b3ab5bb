package zendesk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ganot/helpdesk-mcp/internal/errs"
)

const (
	// defaultMaxAttempts bounds the retry loop per request, counting the
	// first try.
	defaultMaxAttempts = 5

	// maxRetryDelay caps any single wait, including upstream-suggested
	// Retry-After values.
	maxRetryDelay = 30 * time.Second

	// maxErrorBody bounds how much of an error response is kept for
	// diagnostics.
	maxErrorBody = 2048
)

// getJSON fetches baseURL+path with the given query parameters and
// decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, op, path string, params url.Values, out any) error {
	full := c.baseURL + path
	if len(params) > 0 {
		full += "?" + params.Encode()
	}
	return c.getJSONURL(ctx, op, full, out)
}

// getJSONURL fetches a fully-qualified URL, typically an upstream
// pagination link, applying the retry policy. Rate limiting (429) and
// server errors (5xx) retry with exponential backoff, honoring an
// integer Retry-After when the upstream sends one. Other non-2xx
// statuses fail immediately.
func (c *Client) getJSONURL(ctx context.Context, op, rawURL string, out any) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = time.Second
	policy.MaxInterval = maxRetryDelay
	policy.MaxElapsedTime = 0
	policy.Reset()

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		status, header, body, err := c.fetch(ctx, rawURL)
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("%s: %w", op, ctx.Err())
			}
			lastErr = &errs.TransportError{Op: op, Retriable: true, Err: err}
			if attempt == c.maxAttempts {
				return lastErr
			}
			delay := capDelay(policy.NextBackOff())
			c.logger.Warn("upstream request failed, retrying",
				"op", op, "attempt", attempt, "delay", delay, "error", err)
			if serr := c.sleep(ctx, delay); serr != nil {
				return fmt.Errorf("%s: %w", op, serr)
			}
			continue
		}

		switch {
		case status >= 200 && status < 300:
			if out == nil {
				return nil
			}
			if err := json.Unmarshal(body, out); err != nil {
				return &errs.TransportError{
					Op:     op,
					Status: status,
					Err:    fmt.Errorf("decode response: %w", err),
				}
			}
			return nil

		case status == http.StatusTooManyRequests || status >= 500:
			lastErr = &errs.TransportError{
				Op:        op,
				Status:    status,
				Body:      clipBody(body),
				Retriable: true,
			}
			if attempt == c.maxAttempts {
				return lastErr
			}
			delay := retryDelay(header, policy)
			c.logger.Warn("upstream returned retriable status",
				"op", op, "status", status, "attempt", attempt, "delay", delay)
			if serr := c.sleep(ctx, delay); serr != nil {
				return fmt.Errorf("%s: %w", op, serr)
			}
			continue

		default:
			return &errs.TransportError{
				Op:     op,
				Status: status,
				Body:   clipBody(body),
			}
		}
	}
	return lastErr
}

func (c *Client) fetch(ctx context.Context, rawURL string) (int, http.Header, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, nil, nil, err
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, err
	}
	return resp.StatusCode, resp.Header, body, nil
}

// retryDelay prefers the upstream's integer Retry-After over the
// computed backoff. Non-integer values (HTTP dates) fall through to the
// backoff schedule.
func retryDelay(header http.Header, policy *backoff.ExponentialBackOff) time.Duration {
	if raw := strings.TrimSpace(header.Get("Retry-After")); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil && seconds >= 0 {
			return capDelay(time.Duration(seconds) * time.Second)
		}
	}
	return capDelay(policy.NextBackOff())
}

func capDelay(d time.Duration) time.Duration {
	if d < 0 || d > maxRetryDelay {
		return maxRetryDelay
	}
	return d
}

func clipBody(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody])
	}
	return string(body)
}

// statusIs reports whether err is a transport error with the given
// HTTP status.
func statusIs(err error, status int) bool {
	var terr *errs.TransportError
	return errors.As(err, &terr) && terr.Status == status
}
