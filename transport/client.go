// Package transport delivers mapped test runs to the collection service
// over HTTP. Retry is an explicit loop with a classified-error decision,
// scoped to a single Report call.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/testpulse/testpulse-go/model"
)

const (
	reportPath = "/api/v1/test-runs"
	healthPath = "/api/v1/health"

	// maxBodyBytes caps how much of an error response body is retained
	// for logging.
	maxBodyBytes = 4096
)

// Options configures a Client. All fields are fixed at construction.
type Options struct {
	// Base URL of the collection service, without trailing slash
	BaseURL string
	// Per-request timeout
	Timeout time.Duration
	// Maximum number of attempts per Report call
	MaxRetries int
	// Delay before the Nth retry is RetryBaseDelay * N (linear, not exponential)
	RetryBaseDelay time.Duration
	// Static headers sent on every request
	Headers map[string]string
	// Adapter version, reported in the User-Agent header
	Version string
}

// Client talks to the collection service. Configuration is read-only
// after construction; the only per-call state is the attempt counter
// local to each Report invocation.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	headers        map[string]string
	maxRetries     int
	retryBaseDelay time.Duration
	userAgent      string
	logger         zerolog.Logger
}

// ReportResponse is the collector's acknowledgement. The remote-assigned
// identifier is optional.
type ReportResponse struct {
	ID string `json:"id,omitempty"`
}

// New creates a Client from options, applying the documented defaults for
// zero values.
func New(logger zerolog.Logger, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "http://localhost:8080"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.RetryBaseDelay <= 0 {
		opts.RetryBaseDelay = time.Second
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}

	return &Client{
		baseURL:        opts.BaseURL,
		httpClient:     &http.Client{Timeout: opts.Timeout},
		headers:        opts.Headers,
		maxRetries:     opts.MaxRetries,
		retryBaseDelay: opts.RetryBaseDelay,
		userAgent:      fmt.Sprintf("%s/%s", model.ClientType, version),
		logger:         logger,
	}
}

// Report delivers one mapped test run. It retries on retryable failures
// (no response, or 5xx) with a linear backoff and returns a *DeliveryError
// once the failure is terminal or retries are exhausted.
func (c *Client) Report(ctx context.Context, run *model.TestRun) (*ReportResponse, error) {
	payload, err := json.Marshal(run)
	if err != nil {
		return nil, fmt.Errorf("failed to encode test run: %w", err)
	}

	var lastErr *DeliveryError
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if attempt > 1 {
			delay := c.retryBaseDelay * time.Duration(attempt-1)
			c.logger.Warn().
				Int("attempt", attempt).
				Dur("delay", delay).
				Msg("Retrying report delivery")
			if err := sleep(ctx, delay); err != nil {
				return nil, lastErr
			}
		}

		resp, deliveryErr := c.attempt(ctx, payload)
		if deliveryErr == nil {
			c.logSuccess(run, resp)
			return resp, nil
		}

		deliveryErr.Attempts = attempt
		lastErr = deliveryErr
		if !deliveryErr.Retryable() {
			c.logger.Error().
				Int("status", deliveryErr.StatusCode).
				Str("body", deliveryErr.Body).
				Msg("Report rejected, not retrying")
			return nil, deliveryErr
		}
	}

	c.logger.Error().Err(lastErr).Int("attempts", lastErr.Attempts).Msg("Report delivery failed")
	return nil, lastErr
}

// attempt performs a single POST. A nil *DeliveryError means a 2xx
// response was received and decoded.
func (c *Client) attempt(ctx context.Context, payload []byte) (*ReportResponse, *DeliveryError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+reportPath, bytes.NewReader(payload))
	if err != nil {
		return nil, &DeliveryError{Err: err}
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &DeliveryError{Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &DeliveryError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var ack ReportResponse
	// The collector is not required to return a body at all
	_ = json.Unmarshal(body, &ack)
	return &ack, nil
}

// Ping probes the collector's health endpoint. All failure modes,
// network-level or non-2xx, are converted to false.
func (c *Client) Ping(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return false
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Msg("Health check failed")
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
}

func (c *Client) logSuccess(run *model.TestRun, resp *ReportResponse) {
	event := c.logger.Info().
		Str("project_id", run.TestProjectID).
		Str("project_name", run.TestProjectName).
		Int64("seed", run.TestSeed).
		Str("branch", run.GitBranch).
		Int("suites", len(run.SuiteRuns))
	if resp.ID != "" {
		event = event.Str("remote_id", resp.ID)
	}
	event.Msg("Test run reported")
}

// sleep waits for the retry delay, returning early if the context is
// cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
