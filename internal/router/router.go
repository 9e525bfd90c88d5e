package router

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/solivagant/quote-api/internal/handler"
	prometheusHandler "github.com/solivagant/quote-api/internal/handler/prometheus"
	"github.com/solivagant/quote-api/internal/middleware"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine  *gin.Engine
	h       *handler.Handler
	quoteH  Handler
	metrics *prometheusHandler.Handler
	config  RouterConfig
}

type RouterConfig struct {
	CORSConfig      middleware.CORSConfig
	SizeLimitConfig middleware.SizeLimitConfig
	SecurityConfig  middleware.SecurityConfig

	RateLimitEnabled bool
	RateLimiter      middleware.RateLimiterConfig

	// TrustedProxies may set the client IP through X-Forwarded-For. With
	// none, the client IP is always the peer address.
	TrustedProxies []string
}

// NewRouter builds the engine with the ambient middleware chain. metrics
// may be nil, in which case nothing is recorded and /metrics is not served.
func NewRouter(
	h *handler.Handler,
	quoteH Handler,
	metrics *prometheusHandler.Handler,
	config RouterConfig,
) (*Router, error) {
	engine := gin.New() // Use New() instead of Default() for more control
	if err := engine.SetTrustedProxies(config.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	r := &Router{
		engine:  engine,
		h:       h,
		quoteH:  quoteH,
		metrics: metrics,
		config:  config,
	}

	// Add core middlewares
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.SecurityHeaders(config.SecurityConfig),
	)
	if metrics != nil {
		engine.Use(metrics.Middleware())
	}

	return r, nil
}

func (r *Router) Setup() {
	r.setupHealthCheck(r.engine.Group("/health"))
	if r.metrics != nil {
		r.engine.GET("/metrics", r.metrics.Handler())
	}

	gate := middleware.CORS(r.config.CORSConfig)

	api := r.engine.Group("/api")
	api.Use(middleware.NoStore())
	api.Use(gate)
	api.Use(middleware.SizeLimit(r.config.SizeLimitConfig))
	if r.config.RateLimitEnabled {
		api.Use(middleware.NewRateLimiter(r.config.RateLimiter).RateLimit())
	}

	// Preflights for any /api path end in the CORS middleware.
	api.OPTIONS("/*path", func(c *gin.Context) {})

	api.POST("/simple", r.h.Ping)
	r.quoteH.RegisterRoutes(api)

	// Unmatched /api paths still pass the gate, so an unlisted origin sees
	// 403 rather than learning which paths exist.
	r.engine.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			gate(c)
		}
	}, handler.NotFound)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	rg.GET("/live", r.h.LivenessCheck)
	rg.GET("/ready", r.h.ReadinessCheck)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
