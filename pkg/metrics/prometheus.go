// Package metrics provides Prometheus metrics for the partidos binaries.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MillisecondBuckets is the default layout for the millisecond latency
// histograms.
var MillisecondBuckets = []float64{1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}

// Manager owns every Prometheus collector the binaries report.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// CSV source
	csvLoads      prometheus.Counter
	csvLoadErrors prometheus.Counter
	csvRows       prometheus.Gauge
	csvLoadTime   prometheus.Histogram

	// Remote match feed
	fetchLatency   prometheus.Histogram
	fetchErrors    *prometheus.CounterVec
	matchesFetched prometheus.Counter
	cacheHits      prometheus.Counter

	// Analysis
	graphEdges     *prometheus.GaugeVec
	regressionFits prometheus.Counter
	chartRenders   *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry; runtime collectors are opt-in via RegisterRuntimeCollectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "partidos",
		subsystem:        "",
		histogramBuckets: MillisecondBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint, method and status",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.csvLoads = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "csv_loads_total",
		Help:        "Total number of CSV file loads",
		ConstLabels: m.constLabels,
	})

	m.csvLoadErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "csv_load_errors_total",
		Help:        "Total number of CSV loads that failed to read or parse",
		ConstLabels: m.constLabels,
	})

	m.csvRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "csv_rows",
		Help:        "Number of data rows in the last CSV load",
		ConstLabels: m.constLabels,
	})

	m.csvLoadTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "csv_load_duration_milliseconds",
		Help:        "CSV read and parse time in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.fetchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "fetch_latency_milliseconds",
		Help:        "Remote match feed request latency in milliseconds",
		Buckets:     []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
		ConstLabels: m.constLabels,
	})

	m.fetchErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "fetch_errors_total",
		Help:        "Remote match feed failures by kind",
		ConstLabels: m.constLabels,
	}, []string{"kind"})

	m.matchesFetched = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "matches_fetched_total",
		Help:        "Total number of match records received from the remote feed",
		ConstLabels: m.constLabels,
	})

	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "snapshot_cache_hits_total",
		Help:        "Runs served from the local match snapshot instead of the remote feed",
		ConstLabels: m.constLabels,
	})

	m.graphEdges = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "graph_edges",
		Help:        "Edges in the last built matchup graph by variant",
		ConstLabels: m.constLabels,
	}, []string{"graph"})

	m.regressionFits = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "regression_fits_total",
		Help:        "Total number of least-squares fits",
		ConstLabels: m.constLabels,
	})

	m.chartRenders = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "chart_renders_total",
		Help:        "Charts rendered by kind",
		ConstLabels: m.constLabels,
	}, []string{"chart"})
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordCSVLoad records a successful CSV load with its row count and duration.
func RecordCSVLoad(rows int, durationMs float64) {
	globalManager.csvLoads.Inc()
	globalManager.csvRows.Set(float64(rows))
	globalManager.csvLoadTime.Observe(durationMs)
}

// RecordCSVLoadError increments the CSV failure counter.
func RecordCSVLoadError() {
	globalManager.csvLoads.Inc()
	globalManager.csvLoadErrors.Inc()
}

// RecordFetch records a completed remote fetch.
func RecordFetch(matches int, latencyMs float64) {
	globalManager.matchesFetched.Add(float64(matches))
	globalManager.fetchLatency.Observe(latencyMs)
}

// RecordFetchError increments the fetch failure counter for kind
// ("transport", "status", "decode").
func RecordFetchError(kind string) {
	globalManager.fetchErrors.WithLabelValues(kind).Inc()
}

// RecordCacheHit counts a run served from the snapshot store.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// UpdateGraphEdges sets the edge count for a graph variant.
func UpdateGraphEdges(graph string, edges int) {
	globalManager.graphEdges.WithLabelValues(graph).Set(float64(edges))
}

// RecordRegressionFit counts a least-squares fit.
func RecordRegressionFit() {
	globalManager.regressionFits.Inc()
}

// RecordChartRender counts a rendered chart.
func RecordChartRender(chart string) {
	globalManager.chartRenders.WithLabelValues(chart).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

var runtimeOnce sync.Once

// RegisterRuntimeCollectors adds the Go and process collectors to the
// custom registry. Safe to call more than once.
func RegisterRuntimeCollectors() {
	runtimeOnce.Do(func() {
		customRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	})
}
