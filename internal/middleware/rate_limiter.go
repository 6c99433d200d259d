package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/clinic-registry/pkg/metrics"
)

const redisRateLimitPrefix = "clinics:rl:ip:"

// RedisRateLimiter is a fixed-window limiter shared by every replica through
// Redis. A window admits floor(rps*window)+burst requests per client IP.
// Windows are whole seconds; anything finer is truncated.
type RedisRateLimiter struct {
	client  *redis.Client
	allowed int64
	window  time.Duration
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewRedisRateLimiter(client *redis.Client, rps float64, burst int, window time.Duration, m *metrics.Metrics) *RedisRateLimiter {
	window = window.Truncate(time.Second)
	if window < time.Second {
		window = time.Second
	}
	return &RedisRateLimiter{
		client:  client,
		allowed: int64(rps*window.Seconds()) + int64(burst),
		window:  window,
		metrics: m,
		now:     time.Now,
	}
}

// RateLimit fails open: if Redis cannot be reached the request is served and
// a warning logged.
func (rl *RedisRateLimiter) RateLimit() gin.HandlerFunc {
	windowSeconds := int64(rl.window / time.Second)

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		bucket := rl.now().Unix() / windowSeconds
		key := fmt.Sprintf("%s%s:%d", redisRateLimitPrefix, clientKey(c), bucket)

		count, err := rl.client.Incr(ctx, key).Result()
		if err != nil {
			log.Warn().
				Err(err).
				Str("request_id", c.GetString(ContextRequestID)).
				Msg("rate limit check failed")
			c.Next()
			return
		}
		if count == 1 {
			_ = rl.client.Expire(ctx, key, rl.window+time.Second).Err()
		}

		if count > rl.allowed {
			rejectRateLimited(c, rl.metrics, "redis", rl.window)
			return
		}
		c.Next()
	}
}
