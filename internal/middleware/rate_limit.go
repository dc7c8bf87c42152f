package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/tour-guide-api/internal/cache"
	"github.com/BruksfildServices01/tour-guide-api/internal/httperr"
	"github.com/BruksfildServices01/tour-guide-api/internal/logger"
)

// RateLimit counts requests per client IP. When Redis is unreachable the
// request is let through and the failure logged.
func RateLimit(limiter *cache.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.FromContext(c, nil).Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))

		if !d.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(d.ResetIn.Seconds())))
			httperr.Code(c, httperr.CodeRateLimited)
			return
		}

		c.Next()
	}
}
