package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/fertilizer-service/internal/domain/dto"
	"github.com/guttosm/fertilizer-service/internal/i18n"
	"github.com/guttosm/fertilizer-service/internal/logger"
)

// Recovery turns a handler panic into a 500 JSON error and logs the stack.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			p := recover()
			if p == nil {
				return
			}
			logger.FromContext(c.Request.Context()).Error().
				Str("path", c.Request.URL.Path).
				Interface("panic", p).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewError(dto.ErrCodeInternal, i18n.T(c, i18n.ErrKeyInternalError)).WithRequestID(GetRequestID(c)))
		}()
		c.Next()
	}
}
