package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/leadmap/leadmap/logger"
	"github.com/leadmap/leadmap/web/cache"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig configures rate limiting
type RateLimitConfig struct {
	RequestsPerMinute int
	Counter           cache.Counter
	KeyFunc           func(c *gin.Context) string
}

// DefaultRateLimitConfig limits each client IP per route.
func DefaultRateLimitConfig(requestsPerMinute int, counter cache.Counter) RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: requestsPerMinute,
		Counter:           counter,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP() + ":" + c.FullPath()
		},
	}
}

// RateLimitMiddleware rejects requests over the per-minute budget with 429.
// Counter failures let the request through.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.RequestsPerMinute <= 0 {
			c.Next()
			return
		}

		key := "ratelimit:" + config.KeyFunc(c)
		count, err := config.Counter.Incr(c.Request.Context(), key, time.Minute)
		if err != nil {
			logger.Warning("Rate limit increment failed:", err)
			c.Next()
			return
		}

		remaining := int64(config.RequestsPerMinute) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerMinute))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(config.RequestsPerMinute) {
			logger.Warningf("Rate limit exceeded for %s (count: %d)", key, count)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
