package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/solivagant/quote-api/internal/handler"
	apperrors "github.com/solivagant/quote-api/pkg/errors"
	"github.com/solivagant/quote-api/pkg/metrics"
)

type CORSConfig struct {
	AllowOrigins []string
	AllowMethods []string
	AllowHeaders []string

	// Metrics is optional; when set, denied origins are counted.
	Metrics *metrics.Metrics
}

func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins: []string{
			"https://www.solivagant.site",
			"https://solivagant.site",
			"http://localhost:3000",
		},
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowHeaders: []string{
			"Content-Type",
			"Authorization",
		},
	}
}

// Validate rejects allow-lists that cannot be honoured with credentialed
// requests.
func (c CORSConfig) Validate() error {
	for _, o := range c.AllowOrigins {
		if o == "" || o == "*" || strings.TrimSpace(o) != o {
			return fmt.Errorf("invalid allowed origin %q", o)
		}
	}
	return nil
}

// CORS gates requests on their Origin header. A request without Origin is
// not a cross-origin claim and passes through with no Access-Control
// headers. A listed origin is echoed back with credentials allowed; any
// other origin is refused with 403 before reaching the handler. Every
// response carries Vary: Origin.
func CORS(config CORSConfig) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(config.AllowOrigins))
	for _, o := range config.AllowOrigins {
		allowed[o] = struct{}{}
	}
	methods := strings.Join(config.AllowMethods, ", ")
	headers := strings.Join(config.AllowHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		// Responses differ by Origin, including the no-Origin variant.
		c.Writer.Header().Add("Vary", "Origin")

		if origin != "" {
			if _, ok := allowed[origin]; !ok {
				if config.Metrics != nil {
					config.Metrics.OriginRejections.Inc()
				}
				log.Warn().
					Str("origin", origin).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Str("request_id", c.GetString(ContextRequestID)).
					Msg("Origin rejected")
				handler.RespondWithError(c, apperrors.NewUnauthorizedOrigin(origin))
				return
			}

			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", methods)
			c.Header("Access-Control-Allow-Headers", headers)
			c.Header("Access-Control-Allow-Credentials", "true")
		}

		// Handle preflight requests
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
