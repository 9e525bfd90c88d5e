package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// HTTP metrics
	RequestDuration *prometheus.HistogramVec
	RequestTotal    *prometheus.CounterVec
	ErrorTotal      *prometheus.CounterVec

	// Quote metrics
	QuotesTotal *prometheus.CounterVec
	QuoteAmount prometheus.Histogram

	// Access gate metrics
	OriginRejections prometheus.Counter
}

// New creates the application metrics and registers them on reg.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"method", "path", "status"}),
		RequestTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		ErrorTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "Total number of HTTP responses with status >= 400",
		}, []string{"method", "path", "status"}),

		QuotesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "quote",
			Name:      "computations_total",
			Help:      "Quote computations by outcome",
		}, []string{"outcome"}),
		QuoteAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "quote",
			Name:      "total_amount",
			Help:      "Distribution of computed quote totals",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500},
		}),

		OriginRejections: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cors",
			Name:      "origin_rejections_total",
			Help:      "Requests denied because their Origin is not allow-listed",
		}),
	}
}
