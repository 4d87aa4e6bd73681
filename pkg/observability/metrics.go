package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics implements every hook interface on Prometheus collectors.
type Metrics struct {
	loads          *prometheus.CounterVec
	loadDuration   prometheus.Histogram
	treeNodes      prometheus.Histogram
	renders        *prometheus.CounterVec
	renderDuration prometheus.Histogram
	cacheOps       *prometheus.CounterVec
	cacheBytes     *prometheus.CounterVec
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		loads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "groot_tree_loads_total",
			Help: "Trees decoded and built, by result",
		}, []string{"result"}),
		loadDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "groot_tree_load_duration_seconds",
			Help:    "Time to decode and build a tree",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		treeNodes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "groot_tree_nodes",
			Help:    "Node count of loaded trees",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		renders: f.NewCounterVec(prometheus.CounterOpts{
			Name: "groot_renders_total",
			Help: "Render passes, by result",
		}, []string{"result"}),
		renderDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "groot_render_duration_seconds",
			Help:    "Time to render all requested formats",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "groot_cache_operations_total",
			Help: "Cache lookups and writes, by key type and outcome",
		}, []string{"key_type", "op"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "groot_cache_written_bytes_total",
			Help: "Bytes written to the cache, by key type",
		}, []string{"key_type"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "groot_http_requests_total",
			Help: "HTTP requests, by method, route and status",
		}, []string{"method", "route", "status"}),
		requestLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "groot_http_request_duration_seconds",
			Help:    "HTTP request latency, by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) OnLoadStart(context.Context, string) {}

func (m *Metrics) OnLoadComplete(_ context.Context, _ string, nodeCount int, d time.Duration, err error) {
	m.loads.WithLabelValues(result(err)).Inc()
	m.loadDuration.Observe(d.Seconds())
	if err == nil {
		m.treeNodes.Observe(float64(nodeCount))
	}
}

func (m *Metrics) OnRenderStart(context.Context, []string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	m.renders.WithLabelValues(result(err)).Inc()
	m.renderDuration.Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestLatency.WithLabelValues(route).Observe(d.Seconds())
}

var (
	_ TreeHooks  = (*Metrics)(nil)
	_ CacheHooks = (*Metrics)(nil)
	_ HTTPHooks  = (*Metrics)(nil)
)
