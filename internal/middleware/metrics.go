package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hotdesk_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hotdesk_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	bookingsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hotdesk_bookings_created_total",
			Help: "Total number of bookings created",
		},
	)

	bookingsCancelledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hotdesk_bookings_cancelled_total",
			Help: "Total number of bookings cancelled",
		},
	)
)

// Metrics records per-request counters and latency histograms.
// Uses the route template (c.FullPath) to keep label cardinality bounded.
func Metrics() gin.HandlerFunc {
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
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func CountBookingCreated()   { bookingsCreatedTotal.Inc() }
func CountBookingCancelled() { bookingsCancelledTotal.Inc() }
