// Package middleware provides the gin middleware stack of the fertilizer
// service: request IDs, logging, recovery, rate limiting and timeouts.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

const maxRequestIDLength = 128

// ContextKey namespaces values stored on the gin context.
type ContextKey string

// RequestIDKey holds the request ID on the gin context.
const RequestIDKey ContextKey = "request_id"

// RequestID assigns every request an ID. A client-supplied X-Request-ID is
// kept when it is printable ASCII of at most 128 bytes; anything else is
// replaced with a UUID v4. The ID is echoed in the response and attached to
// a request-scoped logger reachable through logger.FromContext.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}

		c.Set(string(RequestIDKey), id)
		c.Header(RequestIDHeader, id)

		l := log.Logger.With().Str("request_id", id).Logger()
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))
		c.Next()
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

// GetRequestID returns the ID set by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	id, _ := c.Get(string(RequestIDKey))
	s, _ := id.(string)
	return s
}
