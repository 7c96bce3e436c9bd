package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shikshya/shikshya-backend/internal/response"
)

// rateBucket is a per-client token bucket.
type rateBucket struct {
	tokens   float64
	lastSeen time.Time
}

// RateLimiter is an in-memory per-IP token bucket limiter, used on the
// login endpoints to slow credential stuffing. State is process-local; a
// multi-instance deployment rate-limits per instance.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rateBucket

	rate  float64
	burst float64
}

// NewRateLimiter creates a limiter refilling rate tokens per second up to
// burst, and starts a janitor that drops idle buckets.
func NewRateLimiter(rate float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*rateBucket),
		rate:    rate,
		burst:   float64(burst),
	}
	go rl.janitor()
	return rl
}

// Middleware returns the gin handler enforcing the limit per client IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[key]
	if !ok {
		b = &rateBucket{tokens: rl.burst, lastSeen: now}
		rl.buckets[key] = b
	}

	b.tokens += now.Sub(b.lastSeen).Seconds() * rl.rate
	if b.tokens > rl.burst {
		b.tokens = rl.burst
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (rl *RateLimiter) janitor() {
	for range time.Tick(time.Minute) {
		cutoff := time.Now().Add(-10 * time.Minute)
		rl.mu.Lock()
		for key, b := range rl.buckets {
			if b.lastSeen.Before(cutoff) {
				delete(rl.buckets, key)
			}
		}
		rl.mu.Unlock()
	}
}
