// In-memory token-bucket rate limiting for the terminal API.
//
// Buckets are kept per caller identity (dispatch clerk when known, client IP
// otherwise) and replenished via golang.org/x/time/rate. The limiter is
// process-local: it protects a single backend instance from bursty clients
// and runaway import scripts, not a fleet. Idle buckets are swept
// opportunistically so the map stays bounded.
//
// Idempotent replays (flagged by IdempotencyValidator) pass through without
// consuming tokens, so retrying a dispatch with the same Idempotency-Key is
// never throttled into a different answer.
package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	// bucketIdleTTL is how long a caller's bucket may sit unused before the
	// sweep drops it.
	bucketIdleTTL = 10 * time.Minute

	// sweepEvery is the number of bucket lookups between idle sweeps.
	sweepEvery = 5000
)

// keyFunc maps a request to the identity that owns its token bucket.
type keyFunc func(*gin.Context) string

// KeyByUserOrIP keys buckets by the acting user when one is known, falling
// back to the client IP. The user id is read the same way the handlers read
// it: the "userID" context value first, then the X-User-ID header. Keys are
// namespaced ("user:" / "ip:") so a user id that happens to look like an
// address cannot collide with a real one.
func KeyByUserOrIP() keyFunc {
	return func(c *gin.Context) string {
		if v, ok := c.Get("userID"); ok {
			if s, ok := v.(string); ok && s != "" {
				return "user:" + s
			}
		}
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return "user:" + h
		}
		return "ip:" + c.ClientIP()
	}
}

// bucket pairs a caller's limiter with its last activity, which drives the
// idle sweep.
type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter enforces per-identity token-bucket limits. Buckets are created
// on demand under a mutex; the type is safe for concurrent use.
type RateLimiter struct {
	rps   rate.Limit
	burst int
	keyFn keyFunc

	mu         sync.Mutex
	buckets    map[string]*bucket
	idleTTL    time.Duration
	sinceSweep uint64
}

// NewRateLimiter builds a limiter replenishing rps tokens per second with the
// given burst size (values <= 0 are coerced to 1), keyed by keyFn. Install it
// with Handler().
func NewRateLimiter(rps float64, burst int, keyFn keyFunc) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		keyFn:   keyFn,
		buckets: make(map[string]*bucket),
		idleTTL: bucketIdleTTL,
	}
}

// bucketFor returns the limiter for key, creating it if absent. Every
// sweepEvery lookups it first drops buckets idle for idleTTL or longer; the
// sweep runs before the requested bucket is touched so a stale entry can be
// evicted even when it is the one being fetched.
func (rl *RateLimiter) bucketFor(key string) *rate.Limiter {
	now := time.Now()

	rl.mu.Lock()
	rl.sinceSweep++
	if rl.sinceSweep >= sweepEvery {
		for k, b := range rl.buckets {
			if now.Sub(b.lastSeen) >= rl.idleTTL {
				delete(rl.buckets, k)
			}
		}
		rl.sinceSweep = 0
	}

	if b, ok := rl.buckets[key]; ok {
		b.lastSeen = now
		lim := b.limiter
		rl.mu.Unlock()
		return lim
	}

	lim := rate.NewLimiter(rl.rps, rl.burst)
	rl.buckets[key] = &bucket{limiter: lim, lastSeen: now}
	rl.mu.Unlock()
	return lim
}

// IsRateBypass reports whether IdempotencyValidator marked this request as a
// replay of an already-completed dispatch or import. Replays skip limiting.
func IsRateBypass(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyRateBypass)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Handler returns the Gin middleware. Over-limit requests are rejected with
// 429 and the stable error envelope:
//
//	{
//	  "request_id": "<uuid>",
//	  "code":       "rate_limited",
//	  "message":    "rate limit exceeded"
//	}
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) {
			c.Next()
			return
		}

		if rl.bucketFor(rl.keyFn(c)).Allow() {
			c.Next()
			return
		}

		c.Header("Retry-After", "1")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": c.Writer.Header().Get("X-Request-ID"),
			"code":       "rate_limited",
			"message":    "rate limit exceeded",
		})
	}
}
