package httputil

import (
	"context"
	"sync/atomic"
)

// Semaphore bounds concurrent fire-and-forget deliveries. When every slot is
// taken, new deliveries are dropped rather than queued; the honeypot's reply
// path must never wait on the report endpoint.
type Semaphore struct {
	sem     chan struct{}
	dropped atomic.Int64
}

// NewSemaphore creates a semaphore with the given capacity.
func NewSemaphore(capacity int) *Semaphore {
	if capacity <= 0 {
		capacity = 50
	}
	return &Semaphore{
		sem: make(chan struct{}, capacity),
	}
}

// TryAcquire takes a slot without blocking. Returns false (and counts a
// drop) when at capacity.
func (s *Semaphore) TryAcquire() bool {
	select {
	case s.sem <- struct{}{}:
		return true
	default:
		s.dropped.Add(1)
		return false
	}
}

// Acquire blocks until a slot is available or the context is cancelled.
func (s *Semaphore) Acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns a slot. Must be paired with a successful TryAcquire or
// Acquire.
func (s *Semaphore) Release() {
	select {
	case <-s.sem:
	default:
		// Release without a matching acquire; ignore.
	}
}

// DroppedCount returns how many deliveries were dropped at capacity.
func (s *Semaphore) DroppedCount() int64 {
	return s.dropped.Load()
}

// InUse returns the number of slots currently held.
func (s *Semaphore) InUse() int {
	return len(s.sem)
}

// Stats returns current semaphore statistics.
func (s *Semaphore) Stats() SemaphoreStats {
	return SemaphoreStats{
		Capacity:  cap(s.sem),
		InUse:     len(s.sem),
		Available: cap(s.sem) - len(s.sem),
		Dropped:   s.dropped.Load(),
	}
}

// SemaphoreStats provides semaphore metrics for monitoring.
type SemaphoreStats struct {
	Capacity  int   `json:"capacity"`
	InUse     int   `json:"in_use"`
	Available int   `json:"available"`
	Dropped   int64 `json:"dropped"`
}
