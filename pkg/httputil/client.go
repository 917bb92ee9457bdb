// Package httputil provides the shared outbound HTTP plumbing: pooled
// clients for the report callback and health probes, bounded body reads, and
// a semaphore that keeps fire-and-forget deliveries from piling up.
package httputil

import (
	"io"
	"net"
	"net/http"
	"sync"
	"time"
)

// MaxResponseSize caps how much of a response body is ever read. The report
// endpoint is external and untrusted; an oversized response must not take
// the process down.
const MaxResponseSize = 1 * 1024 * 1024 // 1MB

// sharedTransport is reused by every outbound client so TCP connections to
// the report endpoint survive across delivery attempts.
var sharedTransport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	ForceAttemptHTTP2:     true,
	MaxIdleConns:          50,
	MaxIdleConnsPerHost:   10,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
}

// TimeoutTier selects a timeout budget per operation type.
type TimeoutTier int

const (
	// TierProbe for health checks and other quick lookups (5s)
	TierProbe TimeoutTier = iota
	// TierReport for report callback deliveries (15s)
	TierReport
)

var timeoutDurations = map[TimeoutTier]time.Duration{
	TierProbe:  5 * time.Second,
	TierReport: 15 * time.Second,
}

// Singleton clients per tier - initialized once, reused everywhere.
var (
	clientProbe  *http.Client
	clientReport *http.Client
	clientOnce   sync.Once
)

func initClients() {
	clientProbe = &http.Client{
		Timeout:   timeoutDurations[TierProbe],
		Transport: sharedTransport,
	}
	clientReport = &http.Client{
		Timeout:   timeoutDurations[TierReport],
		Transport: sharedTransport,
	}
}

// Client returns the shared HTTP client for a timeout tier. Use these
// instead of constructing http.Client per request so the connection pool is
// actually shared.
func Client(tier TimeoutTier) *http.Client {
	clientOnce.Do(initClients)
	switch tier {
	case TierProbe:
		return clientProbe
	default:
		return clientReport
	}
}

// ProbeClient returns the 5s client for health checks.
func ProbeClient() *http.Client {
	return Client(TierProbe)
}

// ReportClient returns the 15s client for report callback deliveries.
func ReportClient() *http.Client {
	return Client(TierReport)
}

// ReadResponseBody reads a response body up to maxSize bytes.
func ReadResponseBody(r io.Reader, maxSize int64) ([]byte, error) {
	if maxSize <= 0 {
		maxSize = MaxResponseSize
	}
	return io.ReadAll(io.LimitReader(r, maxSize))
}

// ReadErrorBody reads a response body for error logging, capped small since
// error messages shouldn't be large.
func ReadErrorBody(r io.Reader) ([]byte, error) {
	const maxErrorSize = 64 * 1024
	return io.ReadAll(io.LimitReader(r, maxErrorSize))
}

// DrainAndClose drains and closes a response body so the underlying
// connection returns to the pool.
func DrainAndClose(body io.ReadCloser) {
	if body != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(body, MaxResponseSize))
		_ = body.Close()
	}
}
