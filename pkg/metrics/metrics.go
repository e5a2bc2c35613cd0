// Package metrics holds the Prometheus instruments used across the
// service.  All collectors are registered with the global registry, so
// mounting promhttp.Handler() on /metrics is enough to expose them.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"})

	SummariesCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "summaries_created_total",
			Help: "Cumulative number of summary records created.",
		})

	SummaryJobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summary_jobs_total",
			Help: "Background summary jobs by result.",
		}, []string{"result"})

	SummaryQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "summary_queue_depth",
			Help: "Summary jobs waiting in the queue.",
		})
)

// Job results recorded in SummaryJobsTotal
const (
	JobSucceeded = "succeeded"
	JobFailed    = "failed"
	JobDropped   = "dropped"
	JobOrphaned  = "orphaned"
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		SummariesCreatedTotal,
		SummaryJobsTotal,
		SummaryQueueDepth,
	)
}

// Middleware records request counts and latency per matched route
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
