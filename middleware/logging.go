package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// TraceIDHeader carries the request trace id in and out of the service.
const TraceIDHeader = "X-Trace-ID"

const traceParentHeader = "traceparent"

// traceID resolves the trace id for a request: W3C traceparent first, then
// X-Trace-ID, else a fresh random id.
func traceID(c *gin.Context) string {
	// traceparent format: version-trace_id-parent_id-flags
	if tp := c.GetHeader(traceParentHeader); tp != "" {
		parts := strings.Split(tp, "-")
		if len(parts) >= 2 && parts[1] != "" {
			return parts[1]
		}
	}

	if id := c.GetHeader(TraceIDHeader); id != "" {
		return id
	}

	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// LoggingMiddleware attaches a trace-id scoped zerolog logger to the request
// context, echoes the trace id back in the response, and writes one log line
// per request. Errors that handlers attach via c.Error are logged here with
// their full source chain; the client only ever sees the sanitized envelope.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		id := traceID(c)
		logger := log.With().Str("trace_id", id).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))
		c.Header(TraceIDHeader, id)

		c.Next()

		for _, ginErr := range c.Errors {
			logger.Error().
				Err(ginErr.Err).
				Str("method", method).
				Str("path", path).
				Msg("Request error")
		}

		status := c.Writer.Status()
		var event *zerolog.Event
		if status >= 400 {
			event = logger.Error()
		} else {
			event = logger.Info()
		}
		event.
			Str("method", method).
			Str("path", path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Msg("HTTP request")
	}
}
