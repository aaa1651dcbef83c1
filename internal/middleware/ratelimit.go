package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RateLimiterConfig struct {
	Redis    *redis.Client
	Limit    int
	Interval time.Duration
	Prefix   string
	Log      *zap.Logger
}

// RateLimiter is a fixed-window counter per client IP kept in redis. A nil
// client disables it.
type RateLimiter struct {
	redis    *redis.Client
	limit    int
	interval time.Duration
	prefix   string
	log      *zap.Logger
}

func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.Prefix == "" {
		cfg.Prefix = "ratelimit"
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	return &RateLimiter{
		redis:    cfg.Redis,
		limit:    cfg.Limit,
		interval: cfg.Interval,
		prefix:   cfg.Prefix,
		log:      cfg.Log,
	}
}

// Allow counts one hit for key and reports whether it is within the limit,
// along with the time until the window resets.
func (r *RateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	if r.redis == nil || r.limit <= 0 {
		return true, 0, nil
	}

	window := time.Now().UnixNano() / int64(r.interval)
	redisKey := fmt.Sprintf("%s:%s:%d", r.prefix, key, window)

	pipe := r.redis.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, r.interval)
	ttl := pipe.TTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, err
	}

	return incr.Val() <= int64(r.limit), ttl.Val(), nil
}

// GinMiddleware limits requests per client IP. Redis failures let the
// request through.
func (r *RateLimiter) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter, err := r.Allow(c.Request.Context(), c.FullPath()+":"+c.ClientIP())
		if err != nil {
			r.log.Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			if retryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(retryAfter.Round(time.Second).Seconds())))
			}
			abortJSON(c, http.StatusTooManyRequests, "Too many requests, please try again later")
			return
		}
		c.Next()
	}
}
