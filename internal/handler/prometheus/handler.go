package prometheus

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/solivagant/quote-api/pkg/metrics"
)

type Handler struct {
	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

// New creates a private registry carrying the application metrics plus
// the Go runtime and process collectors.
func New(namespace string) *Handler {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Handler{
		registry: registry,
		metrics:  metrics.New(registry, namespace),
	}
}

// Metrics returns the application collectors, or nil on a nil Handler.
func (h *Handler) Metrics() *metrics.Metrics {
	if h == nil {
		return nil
	}
	return h.metrics
}

func (h *Handler) Registry() *prometheus.Registry {
	return h.registry
}

// Middleware records duration and count of every request, labelled by the
// matched route rather than the raw path.
func (h *Handler) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		h.metrics.RequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
		h.metrics.RequestTotal.WithLabelValues(method, path, status).Inc()
		if c.Writer.Status() >= 400 {
			h.metrics.ErrorTotal.WithLabelValues(method, path, status).Inc()
		}
	}
}

func (h *Handler) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{}))
}
