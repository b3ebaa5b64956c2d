package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requestIDHeader carries the request identifier on both directions.
const requestIDHeader = "X-Request-ID"

// requestIDKey is the gin context key holding the request identifier.
const requestIDKey = "request_id"

// RequestID assigns a unique identifier to each request for tracing. An
// identifier supplied by the caller is reused; otherwise a UUID v4 is
// generated. The identifier is stored in the gin context and echoed in the
// response headers.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}

		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// requestAttr returns the request id as a log attribute, or an empty Attr
// (dropped by slog) when none is set.
func requestAttr(c *gin.Context) slog.Attr {
	id, ok := GetRequestID(c)
	if !ok {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// GetRequestID retrieves the request identifier from the gin context.
// Returns the identifier and whether it was found.
func GetRequestID(c *gin.Context) (string, bool) {
	id, ok := c.Value(requestIDKey).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
