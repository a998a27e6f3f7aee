package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"user-service/internal/adapter/ratelimit"
	"user-service/internal/metrics"
)

// RateLimit rejects requests over the limiter's window with 429. Keys are per
// route template and client IP.
func RateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Enabled() {
			c.Next()
			return
		}

		d := limiter.Allow(c.Request.Context(), c.Request.Method+" "+c.FullPath(), c.ClientIP())
		if !d.Allowed {
			metrics.RateLimitedTotal.WithLabelValues("http").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Error:   "rate_limit_exceeded",
				Message: fmt.Sprintf("Rate limit exceeded: %d requests per %d seconds", d.Limit, limiter.Config().WindowSeconds),
			})
			return
		}

		c.Next()
	}
}
