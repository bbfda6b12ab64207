package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/kingrain94/remote-config-api/internal/config"
	"github.com/kingrain94/remote-config-api/pkg/logger"
)

const rateLimitWindow = time.Minute

type RateLimitMiddleware struct {
	redis  *redis.Client
	config *config.Config
	logger *logger.Logger
}

func NewRateLimitMiddleware(redis *redis.Client, config *config.Config, logger *logger.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		redis:  redis,
		config: config,
		logger: logger,
	}
}

// PublicRateLimit limits published-config reads per client IP.
func (m *RateLimitMiddleware) PublicRateLimit() gin.HandlerFunc {
	limit := m.config.DefaultRateLimit
	if limit <= 0 {
		limit = 600
	}
	return m.limitByIP("public", limit, "Rate limit exceeded")
}

// GlobalRateLimit implements global rate limiting based on IP
func (m *RateLimitMiddleware) GlobalRateLimit(limit int) gin.HandlerFunc {
	return m.limitByIP("global", limit, "Global rate limit exceeded")
}

// limitByIP is a fixed one-minute window counter in Redis. Redis errors
// fail open.
func (m *RateLimitMiddleware) limitByIP(scope string, limit int, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.redis == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("rate_limit:%s:%s", scope, c.ClientIP())
		reset := strconv.FormatInt(time.Now().Add(rateLimitWindow).Unix(), 10)

		current, err := m.redis.Get(ctx, key).Int()
		if err != nil && !errors.Is(err, redis.Nil) {
			m.logger.Error("Redis error in rate limiting", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Reset", reset)

		if current >= limit {
			c.Header("X-RateLimit-Remaining", "0")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": message,
				"limit": limit,
				"reset": reset,
			})
			return
		}

		pipe := m.redis.Pipeline()
		pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, rateLimitWindow)
		if _, err := pipe.Exec(ctx); err != nil {
			m.logger.Error("Redis pipeline error in rate limiting", err)
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(limit-(current+1), 0)))
		c.Next()
	}
}
