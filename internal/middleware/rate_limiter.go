package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/solivagant/quote-api/internal/handler"
	apperrors "github.com/solivagant/quote-api/pkg/errors"
)

type RateLimiterConfig struct {
	Rate  rate.Limit
	Burst int

	// IdleTTL is how long a client's limiter survives without traffic.
	IdleTTL time.Duration
}

// RateLimiter keeps one token bucket per client IP. Idle buckets expire
// from the cache so the map does not grow without bound.
type RateLimiter struct {
	config   RateLimiterConfig
	limiters *cache.Cache
	mu       sync.Mutex
}

func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.IdleTTL <= 0 {
		config.IdleTTL = 10 * time.Minute
	}
	return &RateLimiter{
		config:   config,
		limiters: cache.New(config.IdleTTL, 2*config.IdleTTL),
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, ok := rl.limiters.Get(key); ok {
		l := v.(*rate.Limiter)
		rl.limiters.Set(key, l, cache.DefaultExpiration)
		return l
	}

	l := rate.NewLimiter(rl.config.Rate, rl.config.Burst)
	rl.limiters.Set(key, l, cache.DefaultExpiration)
	return l
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiter(c.ClientIP()).Allow() {
			handler.RespondWithError(c, apperrors.NewRateLimited())
			return
		}
		c.Next()
	}
}
