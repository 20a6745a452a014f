// Package metrics exposes Prometheus counters for completions and HTTP
// requests on a private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/alexanderramin/ulpiano/internal/llm"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the registry and collectors.
type Metrics struct {
	registry     *prometheus.Registry
	llmCalls     *prometheus.CounterVec
	llmLatency   *prometheus.HistogramVec
	llmAttempts  *prometheus.HistogramVec
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		llmCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ulpiano",
			Name:      "llm_calls_total",
			Help:      "Completions by task, outcome and cache use.",
		}, []string{"task", "outcome", "cached"}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ulpiano",
			Name:      "llm_call_duration_seconds",
			Help:      "Provider call latency including retries.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}, []string{"task"}),
		llmAttempts: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ulpiano",
			Name:      "llm_call_attempts",
			Help:      "Provider calls made per completion.",
			Buckets:   []float64{1, 2, 3, 5, 10},
		}, []string{"task"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ulpiano",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ulpiano",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	m.registry.MustRegister(m.llmCalls, m.llmLatency, m.llmAttempts, m.httpRequests, m.httpLatency)
	return m
}

// OnCallComplete implements llm.Observer.
func (m *Metrics) OnCallComplete(event llm.LLMCallEvent) {
	task := string(event.Task)
	outcome := "ok"
	if !event.Success {
		outcome = event.ErrorCode
	}
	m.llmCalls.WithLabelValues(task, outcome, strconv.FormatBool(event.Cached)).Inc()
	if event.Cached {
		return
	}
	m.llmLatency.WithLabelValues(task).Observe(float64(event.LatencyMs) / 1000)
	if event.Attempts > 0 {
		m.llmAttempts.WithLabelValues(task).Observe(float64(event.Attempts))
	}
}

// GinMiddleware records request counts and latency per route.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpLatency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
