package middleware

import (
	"bytes"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// maxLoggedBody caps how much of a request body ends up in the access log.
const maxLoggedBody = 2048

// Logger returns a middleware that logs HTTP requests
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		// Read request body
		var requestBody []byte
		if c.Request.Body != nil && c.Request.Method != "GET" {
			requestBody, _ = io.ReadAll(io.LimitReader(c.Request.Body, maxLoggedBody))
			c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(requestBody), c.Request.Body))
		}

		// Process request
		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		var event *zerolog.Event
		var msg string
		switch {
		case statusCode >= 500:
			event, msg = log.Error(), "Server error"
		case statusCode >= 400:
			event, msg = log.Warn(), "Client error"
		default:
			event, msg = log.Info(), "Request processed"
		}

		event = event.
			Str("request_id", c.GetString(ContextRequestID)).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("ip", c.ClientIP()).
			Str("origin", c.GetHeader("Origin")).
			Int("status", statusCode).
			Dur("duration", latency).
			Str("user_agent", c.Request.UserAgent())

		if len(requestBody) > 0 {
			event = event.Str("request", string(requestBody))
		}
		if err := c.Errors.Last(); err != nil {
			event = event.Err(err.Err)
		}

		event.Msg(msg)
	}
}
