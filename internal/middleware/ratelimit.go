package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/healthassist-server/internal/domain"
)

// IPRateLimiter hands out one token bucket per client IP. Buckets for idle
// clients are dropped after an hour, and at most maxClients are tracked.
type IPRateLimiter struct {
	mu       sync.Mutex
	limiters *expirable.LRU[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
}

// NewIPRateLimiter allows perMinute requests per IP with the given burst.
func NewIPRateLimiter(perMinute, burst, maxClients int) *IPRateLimiter {
	if maxClients <= 0 {
		maxClients = 10000
	}
	return &IPRateLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](maxClients, nil, time.Hour),
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
	}
}

// Allow reports whether ip may make another request now.
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	limiter, ok := l.limiters.Get(ip)
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters.Add(ip, limiter)
	}
	l.mu.Unlock()
	return limiter.Allow()
}

// Middleware rejects requests over the limit. onLimited renders the
// rejection; nil means a JSON 429.
func (l *IPRateLimiter) Middleware(onLimited gin.HandlerFunc) gin.HandlerFunc {
	if onLimited == nil {
		onLimited = func(c *gin.Context) {
			c.JSON(http.StatusTooManyRequests, domain.NewAppError(
				domain.ErrCodeRateLimit, "Too many requests", "", c.GetString(CorrelationIDKey)))
		}
	}
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.Header("Retry-After", "60")
			onLimited(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
