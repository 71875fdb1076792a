package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	stockUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_updates_total",
			Help: "Total number of stock mutations recorded in the ledger.",
		},
		[]string{"direction"},
	)

	verificationTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_verification_transitions_total",
			Help: "Total number of shop verification status changes.",
		},
		[]string{"status"},
	)
)

// Middleware records request counts and latency per route. The route
// template is used rather than the raw path so IDs do not explode the
// label cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).
			Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// RecordStockUpdate counts a ledger mutation by direction.
func RecordStockUpdate(change int) {
	direction := "unchanged"
	switch {
	case change > 0:
		direction = "increase"
	case change < 0:
		direction = "decrease"
	}
	stockUpdatesTotal.WithLabelValues(direction).Inc()
}

// RecordVerificationTransition counts a shop status change.
func RecordVerificationTransition(status string) {
	verificationTransitionsTotal.WithLabelValues(status).Inc()
}
