package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"socialnet/config"
	"socialnet/utils"
)

type rateLimiter struct {
	limiter *rate.Limiter
	expires time.Time
	mu      sync.Mutex
}

var (
	limiters   = map[string]*rateLimiter{}
	limitersMu sync.Mutex
)

// RateLimitMiddleware applies a per-IP rate limit. When Redis is configured
// a fixed window counter is shared across instances; otherwise an in-process
// token bucket is used.
func RateLimitMiddleware() gin.HandlerFunc {
	cfg := config.Get()
	perMinute := maxInt(cfg.RateLimitPerMinute, 1)
	r := rate.Every(time.Minute / time.Duration(perMinute))
	burst := maxInt(perMinute/2, 1)
	useRedis := cfg.RedisHost != ""

	return func(ctx *gin.Context) {
		ip := ctx.ClientIP()

		allowed := true
		if useRedis {
			allowed = allowRedis(ctx.Request.Context(), ip, perMinute)
		} else {
			limiter := getLimiter(ip, r, burst)
			limiter.mu.Lock()
			allowed = limiter.limiter.Allow()
			limiter.mu.Unlock()
		}

		if !allowed {
			utils.Error(ctx, 429, 42901, "rate limit exceeded")
			ctx.Abort()
			return
		}

		ctx.Next()
	}
}

// allowRedis counts requests in a one-minute fixed window. Redis errors fail
// open so a cache outage never takes write traffic down with it.
func allowRedis(ctx context.Context, ip string, limit int) bool {
	rc := utils.GetRedis()
	if rc == nil {
		return true
	}
	window := time.Now().Unix() / 60
	key := fmt.Sprintf("ratelimit:%s:%d", ip, window)

	cctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	count, err := rc.Incr(cctx, key).Result()
	if err != nil {
		return true
	}
	if count == 1 {
		_ = rc.Expire(cctx, key, 2*time.Minute).Err()
	}
	return count <= int64(limit)
}

func getLimiter(key string, limit rate.Limit, burst int) *rateLimiter {
	limitersMu.Lock()
	defer limitersMu.Unlock()

	cleanupExpiredLimitersLocked()

	if limiter, ok := limiters[key]; ok {
		limiter.expires = time.Now().Add(5 * time.Minute)
		return limiter
	}

	limiter := &rateLimiter{
		limiter: rate.NewLimiter(limit, burst),
		expires: time.Now().Add(5 * time.Minute),
	}
	limiters[key] = limiter
	return limiter
}

func cleanupExpiredLimitersLocked() {
	now := time.Now()
	for key, limiter := range limiters {
		if now.After(limiter.expires) {
			delete(limiters, key)
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
