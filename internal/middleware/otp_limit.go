package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Counter is the subset of the redis client the send-otp limiter uses.
type Counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
}

// OTPSendLimiter caps send-otp calls per client IP in a fixed window
// shared across instances through Redis.
type OTPSendLimiter struct {
	counter Counter
	prefix  string
	limit   int
	window  time.Duration
	log     *logrus.Logger
}

func NewOTPSendLimiter(counter Counter, limit int, window time.Duration, log *logrus.Logger) *OTPSendLimiter {
	return &OTPSendLimiter{
		counter: counter,
		prefix:  "citycare:otp-send",
		limit:   limit,
		window:  window,
		log:     log,
	}
}

func (l *OTPSendLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := l.prefix + ":" + c.ClientIP()

		count, err := l.counter.Incr(ctx, key).Result()
		if err != nil {
			l.log.WithError(err).Error("redis error incrementing otp counter")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			c.Abort()
			return
		}

		// TTL only on the first hit so the window is fixed
		if count == 1 {
			if err := l.counter.Expire(ctx, key, l.window).Err(); err != nil {
				l.log.WithError(err).Error("redis error setting otp counter ttl")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				c.Abort()
				return
			}
		}

		if count > int64(l.limit) {
			retryAfter, _ := l.counter.TTL(ctx, key).Result()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many OTP requests. Please try again later.",
				"retry_after": retryAfter.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
