package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/finsuite/backend/internal/infrastructure/ratelimit"
	"github.com/finsuite/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimit rejects requests over the limiter's quota with 429.
// Requests are keyed by client IP. A limiter error lets the request through.
func RateLimit(limiter ratelimit.Limiter, log *zap.Logger) gin.HandlerFunc {
	return RateLimitByKey(limiter, func(c *gin.Context) string { return c.ClientIP() }, log)
}

// RateLimitByKey is RateLimit with a custom key extractor
func RateLimitByKey(limiter ratelimit.Limiter, keyFunc func(*gin.Context) string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := limiter.Allow(c.Request.Context(), keyFunc(c))
		if err != nil {
			if log != nil {
				log.Warn("Rate limiter unavailable, allowing request", zap.Error(err))
			}
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(decision.RetryAfter.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRateLimited,
				"Too many requests. Please try again later.",
				GetRequestID(c),
			))
			return
		}

		c.Next()
	}
}
