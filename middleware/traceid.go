package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TraceIDHeader carries the request correlation id; callers may supply
// their own, otherwise one is minted here.
const TraceIDHeader = "X-Trace-ID"

const traceIDKey = "trace_id"

// TraceID attaches a correlation id to the request context and echoes
// it back in the response headers.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(TraceIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(traceIDKey, id)
		c.Header(TraceIDHeader, id)
		c.Next()
	}
}

// GetTraceID returns the request's correlation id, or "" outside the
// middleware chain.
func GetTraceID(c *gin.Context) string {
	return c.GetString(traceIDKey)
}
