package api

import (
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/ZamarianPatrick/lazypig-care/domain"
)

// RateLimiter hands out one token bucket per user.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	r        rate.Limit
	b        int
}

func NewRateLimiter(requestsPerMinute, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		r:        rate.Limit(float64(requestsPerMinute) / 60.0),
		b:        burst,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.limiters[key]
	if !ok {
		l = rate.NewLimiter(rl.r, rl.b)
		rl.limiters[key] = l
	}

	// Full buckets carry no state worth keeping.
	for k, other := range rl.limiters {
		if k != key && other.Tokens() >= float64(rl.b) {
			delete(rl.limiters, k)
		}
	}
	return l
}

func (rl *RateLimiter) Allow(key string) bool {
	return rl.limiter(key).Allow()
}

// rateLimit limits per authenticated user. It must run after the
// authenticator.
func (r *Resolver) rateLimit(c *gin.Context) {
	if !r.limiter.Allow(currentUser(c)) {
		r.respondError(c, domain.NewRateLimitedError())
		return
	}
	c.Next()
}
