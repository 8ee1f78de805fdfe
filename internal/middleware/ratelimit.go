package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"github.com/weqtian/user_center/internal/apperrors"
)

// NewMemoryLimiter builds a limiter from a formatted rate such as "5-M".
func NewMemoryLimiter(formatted string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	return limiter.New(memory.NewStore(), rate), nil
}

// RateLimit creates a Gin middleware for rate limiting requests.
// It uses the provided limiter instance, keyed by client IP.
func RateLimit(limiterInstance *limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		context, err := limiterInstance.Get(c.Request.Context(), ip)
		if err != nil {
			AbortWithError(c, apperrors.System(err))
			return
		}

		if context.Reached {
			GetLoggerFromCtx(c.Request.Context()).Warn().
				Str("ip", ip).
				Int64("limit", context.Limit).
				Msg("Rate limit exceeded")
			AbortWithError(c, apperrors.TooManyRequests())
			return
		}

		c.Next()
	}
}
