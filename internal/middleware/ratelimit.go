package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/wellness-advisor-server/internal/domain"
	"github.com/wellness-advisor-server/internal/metrics"
)

// RateLimiter hands out one token bucket per client IP. The set of tracked clients is
// bounded; the least recently seen client is evicted first.
type RateLimiter struct {
	mu       sync.Mutex
	limiters *lru.Cache[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
}

// NewRateLimiter creates a limiter allowing rps requests per second with the given burst
// to each of at most maxClients clients.
func NewRateLimiter(rps float64, burst, maxClients int) (*RateLimiter, error) {
	cache, err := lru.New[string, *rate.Limiter](maxClients)
	if err != nil {
		return nil, err
	}
	return &RateLimiter{
		limiters: cache,
		limit:    rate.Limit(rps),
		burst:    burst,
	}, nil
}

// Allow reports whether the client may make a request now.
func (rl *RateLimiter) Allow(clientID string) bool {
	return rl.limiter(clientID).Allow()
}

// Clients returns the number of clients currently tracked.
func (rl *RateLimiter) Clients() int {
	return rl.limiters.Len()
}

func (rl *RateLimiter) limiter(clientID string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if l, ok := rl.limiters.Get(clientID); ok {
		return l
	}
	l := rate.NewLimiter(rl.limit, rl.burst)
	rl.limiters.Add(clientID, l)
	return l
}

// Middleware rejects requests over the client's budget with 429.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.Allow(c.ClientIP()) {
			c.Next()
			return
		}

		metrics.RecordRateLimited()
		c.Header("Retry-After", "1")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, domain.NewAdvisorError(
			domain.ErrRateLimit,
			"Too many requests",
			"",
			c.GetString(CorrelationIDKey),
		))
	}
}
