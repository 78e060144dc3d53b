package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/fertilizer-service/internal/domain/model"
	"github.com/guttosm/fertilizer-service/internal/logger"
	"github.com/rs/zerolog"
)

// RequestLogger writes one access line per request and, when the log store
// is enabled, queues the same record on the async logger.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		entry := &model.LogEntry{
			Timestamp:  start.UTC(),
			Level:      levelFor(status),
			Message:    "HTTP request",
			RequestID:  GetRequestID(c),
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			StatusCode: status,
			Duration:   time.Since(start).Milliseconds(),
			IP:         c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
			FarmID:     c.GetString(farmIDKey),
			Degraded:   IsDegraded(c),
		}
		if len(c.Errors) > 0 {
			entry.Error = c.Errors.Last().Error()
		}

		lvl, _ := zerolog.ParseLevel(entry.Level)
		ev := logger.FromContext(c.Request.Context()).WithLevel(lvl).
			Str("method", entry.Method).
			Str("path", entry.Path).
			Int("status_code", status).
			Int64("duration_ms", entry.Duration).
			Str("ip", entry.IP).
			Str("user_agent", entry.UserAgent).
			Bool("degraded", entry.Degraded)
		if entry.Error != "" {
			ev = ev.Str("error", entry.Error)
		}
		ev.Msg(entry.Message)

		if al := GetAsyncLogger(); al != nil {
			al.Log(entry)
		}
	}
}

func levelFor(status int) string {
	switch {
	case status >= 500:
		return "error"
	case status >= 400:
		return "warn"
	}
	return "info"
}
