package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"freecode/internal/common"

	"golang.org/x/time/rate"
)

// RateLimiter hands each client address its own token bucket. Clients
// unseen for longer than idle are forgotten; the sweep runs at most once
// per idle period.
type RateLimiter struct {
	mu        sync.Mutex
	refill    rate.Limit
	burst     int
	idle      time.Duration
	clock     func() time.Time
	visitors  map[string]*visitor
	nextSweep time.Time
}

type visitor struct {
	bucket *rate.Limiter
	seen   time.Time
}

func NewRateLimiter(perSecond float64, burst int, idle time.Duration) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		refill:   rate.Limit(perSecond),
		burst:    burst,
		idle:     idle,
		clock:    time.Now,
		visitors: make(map[string]*visitor),
	}
}

// Allow spends one token from key's bucket.
func (rl *RateLimiter) Allow(key string) bool {
	now := rl.clock()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if !now.Before(rl.nextSweep) {
		rl.forgetIdle(now)
	}
	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{bucket: rate.NewLimiter(rl.refill, rl.burst)}
		rl.visitors[key] = v
	}
	v.seen = now
	return v.bucket.AllowN(now, 1)
}

func (rl *RateLimiter) forgetIdle(now time.Time) {
	for key, v := range rl.visitors {
		if now.Sub(v.seen) > rl.idle {
			delete(rl.visitors, key)
		}
	}
	rl.nextSweep = now.Add(rl.idle)
}

// Handler answers 429 once a client exhausts its bucket. It keys on
// RemoteAddr, so mount it after chi's RealIP.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientIP(r)) {
			common.RespondWithText(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
