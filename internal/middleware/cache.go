package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CacheConfig represents cache control configuration
type CacheConfig struct {
	MaxAge  time.Duration
	Private bool
}

func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		MaxAge: 5 * time.Minute,
	}
}

// NoStore marks every response as uncacheable. Quotes are computed per
// request and must never be served from a shared cache.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}

// Cache allows GET and HEAD responses to be cached for MaxAge. Other
// methods get no-store.
func Cache(config CacheConfig) gin.HandlerFunc {
	scope := "public"
	if config.Private {
		scope = "private"
	}
	directive := fmt.Sprintf("%s, max-age=%d", scope, int(config.MaxAge.Seconds()))

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead:
			c.Header("Cache-Control", directive)
		default:
			c.Header("Cache-Control", "no-store")
		}
		c.Next()
	}
}
