// Package metrics declares the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label for a generation that returned a usable result.
const OutcomeOK = "ok"

var (
	// GenerationsTotal counts generator calls by task and outcome. A failed
	// call's outcome is its error kind.
	GenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitcoach",
		Name:      "ai_generations_total",
		Help:      "AI generation calls by task and outcome.",
	}, []string{"task", "outcome"})

	GenerationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fitcoach",
		Name:      "ai_generation_duration_seconds",
		Help:      "Wall time of AI generation calls.",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 90, 120},
	}, []string{"task"})

	ImageCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitcoach",
		Name:      "image_cache_lookups_total",
		Help:      "Image cache lookups by result (hit or miss).",
	}, []string{"result"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fitcoach",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// ObserveGeneration records one finished generation call.
func ObserveGeneration(task, outcome string, took time.Duration) {
	GenerationsTotal.WithLabelValues(task, outcome).Inc()
	GenerationDuration.WithLabelValues(task).Observe(took.Seconds())
}

// Middleware records request latency labelled by the matched route pattern.
func Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		status := c.Response().Status
		if err != nil {
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			} else if status < http.StatusBadRequest {
				status = http.StatusInternalServerError
			}
		}

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}

		HTTPRequestDuration.
			WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())

		return err
	}
}

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }
