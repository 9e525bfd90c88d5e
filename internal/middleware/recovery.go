package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/solivagant/quote-api/internal/handler"
	apperrors "github.com/solivagant/quote-api/pkg/errors"
)

// Recovery handles panics and logs them appropriately
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				// Get stack trace
				stack := debug.Stack()

				// Log the error
				log.Error().
					Interface("error", err).
					Str("stack", string(stack)).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Str("client_ip", c.ClientIP()).
					Str("request_id", c.GetString(ContextRequestID)).
					Msg("Request panic recovered")

				// Return error to client
				handler.RespondWithError(c, apperrors.NewInternal(fmt.Errorf("panic: %v", err)))
			}
		}()
		c.Next()
	}
}
