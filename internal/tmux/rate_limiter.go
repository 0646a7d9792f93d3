package tmux

import (
	"sync"
	"time"
)

// RateLimiter admits at most n events per second, dropping the rest.
// Used to coalesce bursts of filesystem events from chatty log files into a
// manageable callback rate.
type RateLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

// NewRateLimiter creates a limiter allowing eventsPerSecond events.
func NewRateLimiter(eventsPerSecond int) *RateLimiter {
	if eventsPerSecond <= 0 {
		eventsPerSecond = 1
	}
	return &RateLimiter{interval: time.Second / time.Duration(eventsPerSecond)}
}

// Allow reports whether an event may pass now. The first call always passes.
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if !r.last.IsZero() && now.Sub(r.last) < r.interval {
		return false
	}
	r.last = now
	return true
}

// Coalesce runs fn if the limiter admits an event now, otherwise drops it.
func (r *RateLimiter) Coalesce(fn func()) {
	if r.Allow() {
		fn()
	}
}
