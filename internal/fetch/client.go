package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"jobharvest/internal/scrape/util"
)

// HTTPError carries the status of a non-2xx response so callers can decide
// whether to retry.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error { return e.Err }

type ClientOptions struct {
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	// Retries is the number of extra attempts after a transient failure.
	// Zero means a single attempt.
	Retries   int
	BaseDelay time.Duration
	UserAgent string
}

// Client performs throttled GETs and returns the body as text.
type Client struct {
	hc        *http.Client
	limiter   *util.HostLimiter
	userAgent string
	retries   int
	baseDelay time.Duration
	logger    *slog.Logger
}

func NewClient(opts ClientOptions, logger *slog.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 2 * time.Second
	}
	return &Client{
		hc:        &http.Client{Timeout: opts.Timeout},
		limiter:   util.NewHostLimiter(opts.RequestsPerSecond, opts.Burst),
		userAgent: opts.UserAgent,
		retries:   opts.Retries,
		baseDelay: opts.BaseDelay,
		logger:    logger,
	}
}

// Get fetches rawURL with q appended to its query string.
func (c *Client) Get(ctx context.Context, rawURL string, q url.Values) (string, error) {
	if len(q) > 0 {
		sep := "?"
		if strings.Contains(rawURL, "?") {
			sep = "&"
		}
		rawURL += sep + q.Encode()
	}

	body, err := c.once(ctx, rawURL)
	if err == nil || c.retries <= 0 || !isRetryable(err) {
		return body, err
	}

	lastErr := err
	for attempt := 1; attempt <= c.retries; attempt++ {
		delay := c.backoffDelay(attempt, lastErr)
		c.logger.Warn("retrying after transient error",
			"url", rawURL,
			"attempt", attempt,
			"max_retries", c.retries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		body, err = c.once(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		if !isRetryable(err) {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}

func (c *Client) once(ctx context.Context, rawURL string) (string, error) {
	if err := c.limiter.WaitURL(ctx, rawURL); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return "", &HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("GET %s", rawURL),
		}
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(b), nil
}

// backoffDelay doubles BaseDelay per attempt with ±30% jitter. A Retry-After
// from the server wins.
func (c *Client) backoffDelay(attempt int, err error) time.Duration {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	delay := c.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}
	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= 500
	}

	// network errors and per-call timeouts
	return true
}

func parseRetryAfter(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
