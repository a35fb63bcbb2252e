package server

import (
	"sync"
	"time"
)

// rateLimiter is a fixed-window in-process counter, keyed by caller.
// It protects the anonymous tracking surface from token scanning; a
// single process is enough at this deployment size.
type rateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	counts map[string]*rateWindow
}

type rateWindow struct {
	start time.Time
	seen  int
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		limit:  limit,
		window: window,
		counts: make(map[string]*rateWindow),
	}
}

func (r *rateLimiter) Allow(key string) bool {
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.counts[key]
	if !ok || now.Sub(w.start) >= r.window {
		r.counts[key] = &rateWindow{start: now, seen: 1}
		r.evictStale(now)
		return true
	}
	if w.seen >= r.limit {
		return false
	}
	w.seen++
	return true
}

func (r *rateLimiter) evictStale(now time.Time) {
	if len(r.counts) < 4096 {
		return
	}
	for key, w := range r.counts {
		if now.Sub(w.start) >= r.window {
			delete(r.counts, key)
		}
	}
}
