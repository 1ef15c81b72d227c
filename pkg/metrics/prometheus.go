// Package metrics provides Prometheus metrics for the formline betting analyzer.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the formline service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Core Business Metrics - ingestion and linkage throughput
	filesClassified *prometheus.CounterVec
	tipsReshaped    prometheus.Counter
	betsLinked      prometheus.Counter
	priceMatches    prometheus.Counter
	priceMisses     prometheus.Counter
	analyzeRequests prometheus.Counter
	analyzeDuration prometheus.Histogram

	// Business Quality Metrics
	classifyErrors     prometheus.Counter
	coercionFailures   *prometheus.CounterVec
	historyLoadFailure prometheus.Counter

	// History Store Metrics
	historyRows           prometheus.Gauge
	historyRewrites       prometheus.Counter
	historyRewriteLatency prometheus.Histogram

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Enhanced Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "formline",
		subsystem:        "analyzer",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Core Business Metrics - ingestion and linkage throughput
	m.filesClassified = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "files_classified_total",
			Help:      "Total number of uploaded files classified, by source kind",
		},
		[]string{"kind"},
	)

	m.tipsReshaped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tips_reshaped_total",
		Help:      "Total number of tip records produced by the wide-to-long reshape",
	})

	m.betsLinked = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "bets_linked_total",
		Help:      "Total number of linked bet rows produced",
	})

	m.priceMatches = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "price_matches_total",
		Help:      "Total number of bets matched to a price tick within tolerance",
	})

	m.priceMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "price_misses_total",
		Help:      "Total number of bets with no price tick within tolerance",
	})

	m.analyzeRequests = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "analyze_requests_total",
		Help:      "Total number of analysis runs executed",
	})

	m.analyzeDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "analyze_duration_milliseconds",
		Help:      "Histogram of full analysis run duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Business Quality Metrics
	m.classifyErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "classify_errors_total",
		Help:      "Total number of uploads rejected with an unrecognized schema",
	})

	m.coercionFailures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "coercion_failures_total",
			Help:      "Total number of cell values degraded to missing, by field",
		},
		[]string{"field"},
	)

	m.historyLoadFailure = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "history_load_failures_total",
		Help:      "Total number of history reads that degraded to an empty history",
	})

	// History Store Metrics
	m.historyRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "history_rows",
		Help:      "Current number of reconciled rows in the history store",
	})

	m.historyRewrites = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "history_rewrites_total",
		Help:      "Total number of full history store rewrites",
	})

	m.historyRewriteLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "history_rewrite_latency_milliseconds",
		Help:      "History store rewrite latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Enhanced Error Metrics
	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total errors by component and error type",
		},
		[]string{"component", "error_type"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total errors by endpoint, method and error type",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "Current memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Current number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   m.histogramBuckets,
	})
}

// Core Business Metrics Functions.

// RecordFileClassified increments the classified-file counter for a source kind.
func RecordFileClassified(kind string) {
	globalManager.filesClassified.WithLabelValues(kind).Inc()
}

// RecordTipsReshaped adds to the reshaped tip record counter.
func RecordTipsReshaped(n int) {
	globalManager.tipsReshaped.Add(float64(n))
}

// RecordBetsLinked adds to the linked bet counter.
func RecordBetsLinked(n int) {
	globalManager.betsLinked.Add(float64(n))
}

// RecordPriceMatch increments the within-tolerance price match counter.
func RecordPriceMatch() {
	globalManager.priceMatches.Inc()
}

// RecordPriceMiss increments the no-price-within-tolerance counter.
func RecordPriceMiss() {
	globalManager.priceMisses.Inc()
}

// RecordAnalyzeRequest increments the analysis run counter.
func RecordAnalyzeRequest() {
	globalManager.analyzeRequests.Inc()
}

// RecordAnalyzeDuration records the duration of a full analysis run.
func RecordAnalyzeDuration(durationMs float64) {
	globalManager.analyzeDuration.Observe(durationMs)
}

// Business Quality Metrics Functions.

// RecordClassifyError increments the unrecognized-schema counter.
func RecordClassifyError() {
	globalManager.classifyErrors.Inc()
}

// RecordCoercionFailure increments the degraded-to-missing counter for a field.
func RecordCoercionFailure(field string) {
	globalManager.coercionFailures.WithLabelValues(field).Inc()
}

// RecordHistoryLoadFailure increments the degraded-history-read counter.
func RecordHistoryLoadFailure() {
	globalManager.historyLoadFailure.Inc()
}

// History Store Metrics Functions.

// UpdateHistoryRows sets the current history store row count.
func UpdateHistoryRows(count int) {
	globalManager.historyRows.Set(float64(count))
}

// RecordHistoryRewrite increments the full rewrite counter.
func RecordHistoryRewrite() {
	globalManager.historyRewrites.Inc()
}

// RecordHistoryRewriteLatency records history rewrite latency.
func RecordHistoryRewriteLatency(latencyMs float64) {
	globalManager.historyRewriteLatency.Observe(latencyMs)
}

// HTTP Performance Metrics Functions.

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Enhanced Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
