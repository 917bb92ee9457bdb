package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/trapline/trapline/pkg/httputil"
)

// Client posts final reports to the callback endpoint. One instance serves
// the whole process; concurrent deliveries are bounded by a semaphore so a
// slow endpoint cannot accumulate goroutines.
type Client struct {
	url         string
	apiKey      string
	maxAttempts int
	backoff     time.Duration

	httpClient *http.Client
	sem        *httputil.Semaphore
}

// ClientOption is a functional option for configuring a Client.
type ClientOption func(*Client)

// WithMaxAttempts sets the delivery attempts per report.
func WithMaxAttempts(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithBackoff sets the base backoff between attempts; it doubles after each
// failure.
func WithBackoff(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.backoff = d
		}
	}
}

// WithConcurrency bounds the number of in-flight deliveries.
func WithConcurrency(n int) ClientOption {
	return func(c *Client) {
		c.sem = httputil.NewSemaphore(n)
	}
}

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithAPIKey sets an x-api-key header on outbound deliveries.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// NewClient creates a report client for the callback URL.
func NewClient(url string, opts ...ClientOption) *Client {
	c := &Client{
		url:         url,
		maxAttempts: 3,
		backoff:     time.Second,
		httpClient:  httputil.ReportClient(),
		sem:         httputil.NewSemaphore(50),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dispatch delivers a payload in the background. The call returns
// immediately; if the delivery pool is saturated the report is dropped and
// counted, never queued.
func (c *Client) Dispatch(payload Payload) {
	if !c.sem.TryAcquire() {
		log.Printf("[REPORT] Delivery pool saturated, dropping report for %s (dropped so far: %d)",
			payload.ConversationID, c.sem.DroppedCount())
		return
	}

	go func() {
		defer c.sem.Release()
		if err := c.Deliver(context.Background(), payload); err != nil {
			log.Printf("[REPORT] Giving up on %s: %v", payload.ConversationID, err)
		}
	}()
}

// Deliver posts a payload synchronously, retrying transient failures with
// exponential backoff. Exported for tests and for callers that need the
// outcome.
func (c *Client) Deliver(ctx context.Context, payload Payload) error {
	deliveryID := uuid.NewString()

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			wait := c.backoff << (attempt - 2)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = c.post(ctx, body)
		if lastErr == nil {
			log.Printf("[REPORT] Delivered %s for session %s (attempt %d/%d)",
				deliveryID, payload.ConversationID, attempt, c.maxAttempts)
			return nil
		}
		log.Printf("[REPORT] Delivery %s attempt %d/%d failed: %v",
			deliveryID, attempt, c.maxAttempts, lastErr)
	}

	return fmt.Errorf("all %d attempts failed: %w", c.maxAttempts, lastErr)
}

// ProbeEndpoint checks that the callback endpoint answers at all, on the
// short probe timeout. Run at startup so a misconfigured or unreachable
// endpoint shows up in the logs before the first report is lost.
func (c *Client) ProbeEndpoint(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.url, nil)
	if err != nil {
		return fmt.Errorf("build probe request: %w", err)
	}

	resp, err := httputil.ProbeClient().Do(req)
	if err != nil {
		return fmt.Errorf("probe %s: %w", c.url, err)
	}
	httputil.DrainAndClose(resp.Body)

	// Any HTTP answer counts as reachable; the endpoint may well reject HEAD.
	return nil
}

// post performs one delivery attempt.
func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post report: %w", err)
	}
	defer httputil.DrainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := httputil.ReadErrorBody(resp.Body)
		return fmt.Errorf("endpoint returned %d: %s", resp.StatusCode, string(msg))
	}
	return nil
}

// Stats exposes the delivery pool's semaphore statistics.
func (c *Client) Stats() httputil.SemaphoreStats {
	return c.sem.Stats()
}
