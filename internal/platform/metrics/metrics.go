// Package metrics exposes Prometheus collectors for the HTTP service and the strategy analyzer.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "HTTP requests handled"},
		[]string{"method", "route", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request latency", Buckets: prometheus.DefBuckets},
		[]string{"method", "route"},
	)
	InstrumentAnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "strategy_instrument_analyses_total", Help: "Per-instrument crossover analyses by outcome"},
		[]string{"outcome"},
	)
	AnalysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "strategy_analysis_duration_seconds", Help: "Wall time of one strategy performance request", Buckets: prometheus.DefBuckets},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal, HTTPRequestDuration, InstrumentAnalysesTotal, AnalysisDuration)
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveAnalysis records one analyzer run: its duration and the outcome of every instrument.
func ObserveAnalysis(elapsed time.Duration, ok, failed int) {
	AnalysisDuration.Observe(elapsed.Seconds())
	InstrumentAnalysesTotal.WithLabelValues("ok").Add(float64(ok))
	InstrumentAnalysesTotal.WithLabelValues("failed").Add(float64(failed))
}

// GinMiddleware counts requests per matched route. Unmatched paths are grouped under "unmatched".
func GinMiddleware() gin.HandlerFunc {
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
