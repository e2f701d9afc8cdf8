package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/saravanapriyaa21/take-it-right/internal/domain"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter manages per-client token buckets
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientLimiter
	limit    rate.Limit
	burst    int
	now      func() time.Time
	onResize func(n int)
}

// NewRateLimiter creates a limiter allowing requestsPerSecond per client
// with the given burst. onResize, when non-nil, is called with the number of
// tracked clients whenever it changes.
func NewRateLimiter(config domain.RateLimitConfig, onResize func(n int)) *RateLimiter {
	burst := config.Burst
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		clients:  make(map[string]*clientLimiter),
		limit:    rate.Limit(config.RequestsPerSecond),
		burst:    burst,
		now:      time.Now,
		onResize: onResize,
	}
}

// Allow consumes one token for clientIP
func (rl *RateLimiter) Allow(clientIP string) bool {
	rl.mu.Lock()
	client, exists := rl.clients[clientIP]
	if !exists {
		client = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[clientIP] = client
		rl.resized()
	}
	now := rl.now()
	client.lastSeen = now
	rl.mu.Unlock()

	return client.limiter.AllowN(now, 1)
}

// Len returns the number of tracked clients
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// Cleanup forgets clients idle for longer than maxIdle
func (rl *RateLimiter) Cleanup(maxIdle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-maxIdle)
	removed := false
	for ip, client := range rl.clients {
		if client.lastSeen.Before(cutoff) {
			delete(rl.clients, ip)
			removed = true
		}
	}
	if removed {
		rl.resized()
	}
}

// Run cleans up idle clients every interval until ctx is done
func (rl *RateLimiter) Run(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Cleanup(maxIdle)
		}
	}
}

// caller holds rl.mu
func (rl *RateLimiter) resized() {
	if rl.onResize != nil {
		rl.onResize(len(rl.clients))
	}
}

// RateLimit rejects requests beyond the client's budget with 429
func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.burst))

		if !rl.Allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, domain.NewAPIError(
				domain.ErrRateLimit,
				"Rate limit exceeded. Please try again later.",
				"",
				GetCorrelationID(c),
			))
			return
		}

		c.Next()
	}
}
