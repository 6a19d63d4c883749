package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics implements every hook interface on top of Prometheus collectors.
type Metrics struct {
	EngineRuns     *prometheus.CounterVec
	EngineDuration *prometheus.HistogramVec
	EngineSize     *prometheus.HistogramVec
	CacheEvents    *prometheus.CounterVec
	CacheBytes     *prometheus.CounterVec
	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
	HTTPInFlight   prometheus.Gauge
}

// NewMetrics registers the kintree collectors with reg. Pass
// prometheus.DefaultRegisterer in binaries and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		EngineRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "kintree_engine_runs_total",
			Help: "Engine runs by engine and result",
		}, []string{"engine", "result"}),
		EngineDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kintree_engine_duration_seconds",
			Help:    "Engine run duration",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1},
		}, []string{"engine"}),
		EngineSize: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kintree_engine_persons",
			Help:    "Persons handed to an engine per run",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000},
		}, []string{"engine"}),
		CacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "kintree_cache_events_total",
			Help: "Cache lookups and writes by key type and event",
		}, []string{"key_type", "event"}),
		CacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "kintree_cache_written_bytes_total",
			Help: "Bytes written to the cache by key type",
		}, []string{"key_type"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "kintree_http_requests_total",
			Help: "API requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kintree_http_request_duration_seconds",
			Help:    "API request duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		HTTPInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "kintree_http_requests_in_flight",
			Help: "API requests currently being served",
		}),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// OnInferStart records the size of a kinship run.
func (m *Metrics) OnInferStart(_ context.Context, personCount int) {
	m.EngineSize.WithLabelValues("kinship").Observe(float64(personCount))
}

// OnInferComplete records the outcome of a kinship run.
func (m *Metrics) OnInferComplete(_ context.Context, _ int, d time.Duration, err error) {
	m.EngineRuns.WithLabelValues("kinship", result(err)).Inc()
	m.EngineDuration.WithLabelValues("kinship").Observe(d.Seconds())
}

// OnLayoutStart records the size of a layout run.
func (m *Metrics) OnLayoutStart(_ context.Context, personCount int) {
	m.EngineSize.WithLabelValues("layout").Observe(float64(personCount))
}

// OnLayoutComplete records the outcome of a layout run.
func (m *Metrics) OnLayoutComplete(_ context.Context, _ int, d time.Duration, err error) {
	m.EngineRuns.WithLabelValues("layout", result(err)).Inc()
	m.EngineDuration.WithLabelValues("layout").Observe(d.Seconds())
}

// OnCacheHit counts a hit.
func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheEvents.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss counts a miss.
func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheEvents.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet counts a write and its size.
func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.CacheEvents.WithLabelValues(keyType, "set").Inc()
	m.CacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// OnRequest tracks an in-flight request.
func (m *Metrics) OnRequest(context.Context, string, string) {
	m.HTTPInFlight.Inc()
}

// OnResponse records a finished request.
func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.HTTPInFlight.Dec()
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ PipelineHooks = (*Metrics)(nil)
	_ CacheHooks    = (*Metrics)(nil)
	_ HTTPHooks     = (*Metrics)(nil)
)
