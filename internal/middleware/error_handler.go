package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/fertilizer-service/internal/domain/dto"
	"github.com/guttosm/fertilizer-service/internal/i18n"
	"github.com/guttosm/fertilizer-service/internal/logger"
)

// ErrorHandler logs errors attached with c.Error and writes a generic 500
// when no handler produced a response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		requestID := GetRequestID(c)
		log := logger.Logger()
		for _, err := range c.Errors {
			log.Warn().
				Str("request_id", requestID).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Int("status_code", c.Writer.Status()).
				Err(err.Err).
				Msg("request error")
		}

		if !c.Writer.Written() {
			resp := dto.NewError(dto.ErrCodeInternal, i18n.T(c, i18n.ErrKeyInternalError)).
				WithRequestID(requestID)
			c.JSON(http.StatusInternalServerError, resp)
		}
	}
}
