// Request correlation, access logging, and panic recovery.
//
// Every request gets a stable correlation ID (X-Request-ID), a structured
// zerolog access line, and panic-to-JSON-500 conversion. The chain order
// matters: RequestID first so the correlation ID exists, then a logger, then
// Recovery so panics are captured with structured context.
//
// Handlers and services pull the request-scoped logger via LoggerFrom to
// attach terminal-domain fields, e.g.
// lg.Warn().Str("terminal_id", id).Msg("return rejected").
package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// requestIDKey is the Gin context key holding the correlation ID.
	requestIDKey = "requestID"
	// requestIDHeader propagates the correlation ID on requests and responses.
	requestIDHeader = "X-Request-ID"
	// maxQueryLogBytes caps the logged query string so long filter lists do
	// not bloat the access log.
	maxQueryLogBytes = 2048
)

// RequestID reuses the inbound X-Request-ID when present, otherwise mints a
// UUIDv4. The ID is echoed on the response header and stored in the Gin
// context for downstream middleware and the error envelope.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// Logger emits one structured access line per request: method, route, caller,
// sizes, status, and latency, leveled by outcome (error for 5xx or collected
// Gin errors, warn for 4xx, info otherwise). It also stores a request-scoped
// zerolog.Logger under the "logger" context key for LoggerFrom.
//
// The production stack installs RedactingLogger instead; this variant is for
// setups that do not need header scrubbing.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		rid, _ := c.Get(requestIDKey)
		uid, _ := c.Get("userID")
		path := c.FullPath()
		if path == "" {
			// Unmatched route / 404.
			path = c.Request.URL.Path
		}

		l := log.With().
			Str("request_id", ctxString(rid)).
			Str("user_id", ctxString(uid)).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("remote_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Str("referer", c.Request.Referer()).
			Str("query", clipBytes(c.Request.URL.RawQuery, maxQueryLogBytes)).
			// ContentLength is -1 when unknown.
			Int64("bytes_in", c.Request.ContentLength).
			Logger()

		c.Set("logger", &l)

		c.Next()

		out := l.With().
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Int("bytes_out", c.Writer.Size()).
			Logger()

		status := c.Writer.Status()
		switch {
		case len(c.Errors) > 0:
			out.Error().Str("errors", c.Errors.String()).Msg("request")
		case status >= 500:
			out.Error().Msg("request")
		case status >= 400:
			out.Warn().Msg("request")
		default:
			out.Info().Msg("request")
		}
	}
}

// Recovery converts panics into the stable JSON 500 envelope, logging the
// panic value and stack with the correlation ID. When the handler already
// wrote a partial response, only the status is forced to 500.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				rid, _ := c.Get(requestIDKey)
				log.Error().
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Str("request_id", ctxString(rid)).
					Msg("panic recovered")

				if !c.Writer.Written() {
					c.Header("Content-Type", "application/json")
					c.Header(requestIDHeader, ctxString(rid))
					c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
						"request_id": ctxString(rid),
						"code":       "internal_error",
						"message":    "internal server error",
					})
					return
				}
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped logger attached by Logger, or a plain
// fallback so callers never need a nil check.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get("logger"); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}

// ctxString reads a Gin context value as a string, empty when absent or not a
// string.
func ctxString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// clipBytes truncates s to max bytes with an ellipsis. Byte truncation is
// fine for log output. A max <= 0 disables clipping.
func clipBytes(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
