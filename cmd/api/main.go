package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/solivagant/quote-api/internal/config"
	"github.com/solivagant/quote-api/internal/handler"
	prometheusHandler "github.com/solivagant/quote-api/internal/handler/prometheus"
	"github.com/solivagant/quote-api/internal/handler/quote"
	"github.com/solivagant/quote-api/internal/middleware"
	"github.com/solivagant/quote-api/internal/router"
	"github.com/solivagant/quote-api/internal/service/pricing"
	"github.com/solivagant/quote-api/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig(os.Getenv(config.EnvPrefix + "_CONFIG_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Setup(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	gin.SetMode(gin.ReleaseMode)

	// Initialize pricing
	table, err := cfg.Pricing.Table()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build price table")
	}
	pricingSvc := pricing.NewService(table)

	var metrics *prometheusHandler.Handler
	if cfg.Metrics.Enabled {
		metrics = prometheusHandler.New(cfg.Metrics.Namespace)
	}

	// Initialize handlers
	h := handler.NewHandler()
	quoteHandler, err := quote.NewHandler(pricingSvc, metrics.Metrics())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register request validators")
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.CORS.AllowedOrigins
	corsConfig.Metrics = metrics.Metrics()

	// Setup router
	r, err := router.NewRouter(h, quoteHandler, metrics, router.RouterConfig{
		CORSConfig:       corsConfig,
		SizeLimitConfig:  middleware.SizeLimitConfig{MaxBodySize: cfg.Server.MaxBodyBytes},
		SecurityConfig:   middleware.DefaultSecurityConfig(),
		RateLimitEnabled: cfg.RateLimit.Enabled,
		RateLimiter: middleware.RateLimiterConfig{
			Rate:    rate.Limit(cfg.RateLimit.RequestsPerSecond),
			Burst:   cfg.RateLimit.Burst,
			IdleTTL: cfg.RateLimit.IdleTTL,
		},
		TrustedProxies: cfg.Server.TrustedProxies,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}
	r.Setup()

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Info().
		Int("port", cfg.Server.Port).
		Int("services", table.Len()).
		Strs("allowed_origins", cfg.CORS.AllowedOrigins).
		Bool("rate_limit", cfg.RateLimit.Enabled).
		Bool("metrics", cfg.Metrics.Enabled).
		Msg("starting quote api")

	// Start server
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
