package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// metricRequestsCount counts served requests by route pattern and status code.
	metricRequestsCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jknstat_http_requests_total",
		Help: "Total number of processed HTTP requests",
	}, []string{"route", "code"})

	// metricRequestDuration observes request latency by route pattern.
	metricRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "jknstat_http_request_duration_seconds",
		Help:    "Time to serve an HTTP request (in seconds)",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	// metricRequestsInflight gauges the number of requests currently inflight.
	metricRequestsInflight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "jknstat_http_requests_inflight",
		Help: "The number of requests currently inflight",
	})

	// metricFiguresBuilt counts interactive figures built by kind.
	metricFiguresBuilt = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "jknstat_figures_built_total",
		Help: "Total number of interactive figures built",
	}, []string{"kind"})

	// metricDatasetRows reports the size of the served table.
	metricDatasetRows = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "jknstat_dataset_rows",
		Help: "Number of rows in the served dataset",
	})
)

// instrument records request counts and latency under the matched route pattern.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metricRequestsInflight.Inc()
		defer metricRequestsInflight.Dec()
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metricRequestsCount.WithLabelValues(route, strconv.Itoa(status)).Inc()
		metricRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
