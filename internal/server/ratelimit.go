package server

import (
	"sync"
	"time"

	"github.com/lawnchairsociety/cavemesh/internal/config"
)

// RequestLimiter counts generate requests per IP in fixed windows.
type RequestLimiter struct {
	mu          sync.Mutex
	windows     map[string]*window
	maxRequests int
	length      time.Duration
	now         func() time.Time

	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	stopOnce        sync.Once
}

type window struct {
	start time.Time
	count int
}

// NewRequestLimiter creates a limiter. A MaxRequests of 0 allows everything.
func NewRequestLimiter(cfg config.RateLimitConfig) *RequestLimiter {
	rl := &RequestLimiter{
		windows:         make(map[string]*window),
		maxRequests:     cfg.MaxRequests,
		length:          time.Duration(cfg.WindowSeconds) * time.Second,
		now:             time.Now,
		cleanupInterval: 5 * time.Minute,
		stopCleanup:     make(chan struct{}),
	}
	if rl.length <= 0 {
		rl.length = time.Minute
	}

	go rl.cleanupLoop()

	return rl
}

// Stop stops the cleanup goroutine.
func (rl *RequestLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCleanup) })
}

// Allow records a request from ip. It returns false and the time until the
// window resets when the ip is over its budget.
func (rl *RequestLimiter) Allow(ip string) (bool, time.Duration) {
	if rl.maxRequests <= 0 {
		return true, 0
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[ip]
	if !ok || now.Sub(w.start) >= rl.length {
		w = &window{start: now}
		rl.windows[ip] = w
	}

	if w.count >= rl.maxRequests {
		return false, w.start.Add(rl.length).Sub(now)
	}
	w.count++
	return true, 0
}

func (rl *RequestLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCleanup:
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

// cleanup drops windows that have expired.
func (rl *RequestLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for ip, w := range rl.windows {
		if now.Sub(w.start) >= rl.length {
			delete(rl.windows, ip)
		}
	}
}
