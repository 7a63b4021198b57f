// Package observability exposes Prometheus metrics for the HTTP layer and
// the fact-resolution pipeline. Every Collector owns a private registry so
// tests can build as many as they like.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pipeline stages
const (
	StageIntent   = "intent"
	StageCatalog  = "catalog"
	StageMarket   = "market"
	StageFusion   = "fusion"
	StagePrompt   = "prompt"
	StageGenerate = "generate"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Pipeline metrics
	StageDuration     *prometheus.HistogramVec
	MarketDegraded    prometheus.Counter
	GeneratorFailures *prometheus.CounterVec
	FactsPerRequest   prometheus.Histogram
}

// NewCollector creates a collector with the given namespace
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	stageDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Duration of each fact-resolution stage in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	marketDegraded := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "market_degraded_total",
			Help:      "Market queries that failed and fell back to no listings",
		},
	)

	generatorFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generator_failures_total",
			Help:      "Generator calls that did not produce text",
		},
		[]string{"kind"},
	)

	factsPerRequest := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "facts_per_request",
			Help:      "Number of fused facts per chat request",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
	)

	registry.MustRegister(
		httpRequests,
		httpDuration,
		stageDuration,
		marketDegraded,
		generatorFailures,
		factsPerRequest,
	)

	return &Collector{
		registry:          registry,
		HTTPRequests:      httpRequests,
		HTTPDuration:      httpDuration,
		StageDuration:     stageDuration,
		MarketDegraded:    marketDegraded,
		GeneratorFailures: generatorFailures,
		FactsPerRequest:   factsPerRequest,
	}
}

// GetRegistry returns the Prometheus registry for this collector
func (c *Collector) GetRegistry() *prometheus.Registry {
	return c.registry
}

// ObserveStage records how long a pipeline stage took. Safe on a nil collector.
func (c *Collector) ObserveStage(stage string, d time.Duration) {
	if c == nil {
		return
	}
	c.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// IncMarketDegraded counts a market query that fell back to empty
func (c *Collector) IncMarketDegraded() {
	if c == nil {
		return
	}
	c.MarketDegraded.Inc()
}

// IncGeneratorFailure counts a failed generator call by kind
func (c *Collector) IncGeneratorFailure(kind string) {
	if c == nil {
		return
	}
	c.GeneratorFailures.WithLabelValues(kind).Inc()
}

// ObserveFacts records the number of fused facts for one request
func (c *Collector) ObserveFacts(n int) {
	if c == nil {
		return
	}
	c.FactsPerRequest.Observe(float64(n))
}

// Handler serves the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// GinMiddleware records request count and latency per route
func (c *Collector) GinMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unknown"
		}
		status := strconv.Itoa(ctx.Writer.Status())

		c.HTTPRequests.WithLabelValues(ctx.Request.Method, route, status).Inc()
		c.HTTPDuration.WithLabelValues(ctx.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
