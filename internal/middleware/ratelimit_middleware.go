package middleware

import (
	"net/http"
	"strconv"

	"student-records/internal/redis"
	"student-records/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// WriteRateLimitMiddleware limits mutating requests per client IP.
// Reads pass through untouched.
func WriteRateLimitMiddleware(limiter *redis.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isWriteMethod(c.Request.Method) {
			c.Next()
			return
		}

		result, err := limiter.AllowWrite(c.Request.Context(), c.ClientIP())
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse("rate limit error", httpdto.CodeInternalError))
			c.Abort()
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, httpdto.NewErrorResponse("write rate limit exceeded", httpdto.CodeRateLimited))
			c.Abort()
			return
		}

		c.Next()
	}
}

func setRateLimitHeaders(c *gin.Context, result *redis.RateLimitResult) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(int64(result.ResetIn.Seconds()), 10))
}

func isWriteMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
