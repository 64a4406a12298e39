package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crispdm",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status code",
	}, []string{"route", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "crispdm",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	regenerationTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crispdm",
		Name:      "dataset_regenerations_total",
		Help:      "Datasets drawn, by whether the draw was seeded",
	}, []string{"seeded"})

	regenerateRequestTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "crispdm",
		Name:      "regenerate_requests_total",
		Help:      "Manual regenerate requests",
	})

	fitTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crispdm",
		Name:      "model_fits_total",
		Help:      "Model fits by outcome",
	}, []string{"outcome"})

	fitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "crispdm",
		Name:      "model_fit_duration_seconds",
		Help:      "Time to build a report, including the fit",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
	})

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "crispdm",
		Name:      "sessions_active",
		Help:      "Sessions currently held in memory",
	})
)

// instrument records request count and latency per matched route.
func instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
