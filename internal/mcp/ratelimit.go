package mcp

import (
	"sync"
	"time"
)

// rateWindow tracks one client key's counter within the current window.
type rateWindow struct {
	count int
	start time.Time
}

// RateLimiter is a fixed-window per-client admission counter. The counter
// for a key resets in full when its window elapses; no partial decay occurs,
// so a client can burst up to twice the limit across a window boundary.
// Counters are the only mutable shared state in the core and are guarded by
// one mutex; Admit never blocks on anything but that mutex.
type RateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	clients map[string]*rateWindow
	now     func() time.Time
}

// NewRateLimiter returns a limiter admitting at most limit requests per
// client key per window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		clients: make(map[string]*rateWindow),
		now:     time.Now,
	}
}

// Admit reports whether the client identified by key may proceed. Admitted
// requests count against the current window; rejected ones do not.
func (rl *RateLimiter) Admit(key string) bool {
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.clients[key]
	if !ok || now.Sub(w.start) >= rl.window {
		rl.clients[key] = &rateWindow{count: 1, start: now}
		return true
	}
	if w.count >= rl.limit {
		return false
	}
	w.count++
	return true
}

// Prune drops windows that elapsed before the cutoff, bounding memory for
// servers with churning client populations. Safe to call concurrently with
// Admit.
func (rl *RateLimiter) Prune() {
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, w := range rl.clients {
		if now.Sub(w.start) >= rl.window {
			delete(rl.clients, key)
		}
	}
}
