package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/solivagant/quote-api/internal/handler"
	apperrors "github.com/solivagant/quote-api/pkg/errors"
)

// SizeLimitConfig represents size limit configuration
type SizeLimitConfig struct {
	MaxBodySize int64 // in bytes
}

func DefaultSizeLimitConfig() SizeLimitConfig {
	return SizeLimitConfig{
		MaxBodySize: 64 << 10, // 64KB
	}
}

// SizeLimit rejects bodies whose declared length exceeds the limit and caps
// the reader for bodies of unknown length, so an oversized chunked body
// fails decoding instead of being buffered.
func SizeLimit(config SizeLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > config.MaxBodySize {
			handler.RespondWithError(c, apperrors.NewPayloadTooLarge(config.MaxBodySize))
			return
		}

		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, config.MaxBodySize)
		}

		c.Next()
	}
}
