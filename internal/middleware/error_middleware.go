package middleware

import (
	"net/http"

	"student-records/internal/transport/httpdto"
	"student-records/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler logs errors attached to the context. When the handler did not
// write a response itself, a 500 JSON body is rendered.
func ErrorHandler(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		if l != nil {
			l.ErrorCtx(c.Request.Context(), "request error",
				zap.Error(err),
				zap.Int("status", c.Writer.Status()),
				zap.String("path", c.Request.URL.Path),
			)
		}
		if c.Writer.Written() {
			return
		}
		c.JSON(http.StatusInternalServerError, httpdto.NewErrorResponse(err.Error(), httpdto.CodeInternalError))
	}
}
