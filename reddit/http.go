package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultRequestsPerMinute = 60
	defaultRateLimitBurst    = 10

	apiErrorBodyLimit = 512
)

// tokenProvider supplies a valid bearer token for each request.
type tokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// transport issues authenticated requests against the Reddit API. It
// throttles locally and honors the rate limit headers Reddit returns.
type transport struct {
	client    *http.Client
	baseURL   *url.URL
	userAgent string
	auth      tokenProvider
	logger    *slog.Logger

	limiter        *rate.Limiter
	mu             sync.Mutex
	forceWaitUntil time.Time
}

func newTransport(httpClient *http.Client, auth tokenProvider, baseURL, userAgent string, requestsPerMinute float64, logger *slog.Logger) (*transport, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, &ClientError{OriginalErr: err}
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}

	return &transport{
		client:    httpClient,
		baseURL:   parsed,
		userAgent: userAgent,
		auth:      auth,
		logger:    logger,
		limiter:   buildLimiter(requestsPerMinute),
	}, nil
}

func buildLimiter(requestsPerMinute float64) *rate.Limiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = defaultRequestsPerMinute
	}

	limitPerSecond := rate.Limit(requestsPerMinute / 60.0)
	if limitPerSecond <= 0 {
		limitPerSecond = rate.Limit(1)
	}

	return rate.NewLimiter(limitPerSecond, defaultRateLimitBurst)
}

// newRequest builds a GET request for a path relative to the base URL with
// authorization and user agent headers applied.
func (t *transport) newRequest(ctx context.Context, path string, query url.Values) (*http.Request, error) {
	u, err := t.baseURL.Parse(path)
	if err != nil {
		return nil, &ClientError{OriginalErr: err}
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &ClientError{OriginalErr: err}
	}

	token, err := t.auth.Token(ctx)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", t.userAgent)

	return req, nil
}

// do sends an API request and decodes the JSON response into v.
func (t *transport) do(req *http.Request, v *Thing) error {
	if err := t.waitForRateLimit(req.Context()); err != nil {
		return &ClientError{OriginalErr: err}
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return &ClientError{OriginalErr: err}
	}
	defer resp.Body.Close()

	t.applyRateHeaders(resp)

	if t.logger != nil {
		t.logger.Debug("reddit api response",
			"path", req.URL.Path,
			"status", resp.StatusCode,
			"ratelimit_remaining", resp.Header.Get("X-Ratelimit-Remaining"))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp)
	}

	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return &ClientError{OriginalErr: err}
		}
	}

	return nil
}

func (t *transport) waitForRateLimit(ctx context.Context) error {
	if err := t.waitForForcedDelay(ctx); err != nil {
		return err
	}

	if t.limiter == nil {
		return nil
	}

	return t.limiter.Wait(ctx)
}

func (t *transport) waitForForcedDelay(ctx context.Context) error {
	for {
		t.mu.Lock()
		waitUntil := t.forceWaitUntil
		t.mu.Unlock()

		if waitUntil.IsZero() {
			return nil
		}

		now := time.Now()
		if !now.Before(waitUntil) {
			t.clearForcedDelay(waitUntil)
			return nil
		}

		timer := time.NewTimer(waitUntil.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			t.clearForcedDelay(waitUntil)
		}
	}
}

func (t *transport) clearForcedDelay(previous time.Time) {
	t.mu.Lock()
	if previous.Equal(t.forceWaitUntil) {
		t.forceWaitUntil = time.Time{}
	}
	t.mu.Unlock()
}

// applyRateHeaders inspects Retry-After and the X-Ratelimit family and defers
// subsequent requests when Reddit asks us to back off.
func (t *transport) applyRateHeaders(resp *http.Response) {
	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if seconds, err := strconv.ParseFloat(retryAfter, 64); err == nil && seconds > 0 {
			t.deferRequests(time.Duration(seconds * float64(time.Second)))
		}
	}

	remainingHeader := resp.Header.Get("X-Ratelimit-Remaining")
	resetHeader := resp.Header.Get("X-Ratelimit-Reset")
	if remainingHeader == "" || resetHeader == "" {
		return
	}

	remaining, errRemaining := strconv.ParseFloat(remainingHeader, 64)
	resetSeconds, errReset := strconv.ParseFloat(resetHeader, 64)
	if errRemaining != nil || errReset != nil || resetSeconds <= 0 {
		return
	}

	if remaining <= 1 {
		t.deferRequests(time.Duration(resetSeconds * float64(time.Second)))
	}
}

func (t *transport) deferRequests(d time.Duration) {
	if d <= 0 {
		return
	}

	until := time.Now().Add(d)

	t.mu.Lock()
	if until.After(t.forceWaitUntil) {
		t.forceWaitUntil = until
	}
	t.mu.Unlock()
}

func newAPIError(resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, apiErrorBodyLimit))

	message := strings.TrimSpace(string(body))
	if message == "" {
		message = "request failed"
	}

	return &APIError{StatusCode: resp.StatusCode, Message: message}
}

// APIError represents a non-2xx response from the Reddit API.
type APIError struct {
	StatusCode int
	Message    string
}

// Error returns the error message for the APIError.
func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Message)
}

// ClientError represents an error that occurred within the client.
type ClientError struct {
	OriginalErr error
}

func (e *ClientError) Error() string {
	return e.OriginalErr.Error()
}

func (e *ClientError) Unwrap() error {
	return e.OriginalErr
}
