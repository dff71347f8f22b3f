// Package metrics provides Prometheus metrics for the attrition service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the attrition service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Dataset metrics
	datasetLoads *prometheus.CounterVec
	datasetRows  prometheus.Histogram
	cacheHits    prometheus.Counter
	cacheMisses  prometheus.Counter
	cacheEntries prometheus.Gauge

	// Session metrics
	activeSessions     prometheus.Gauge
	assistantQuestions *prometheus.CounterVec

	// Model metrics
	predictorBuilds       *prometheus.CounterVec
	trainingLatency       prometheus.Histogram
	holdoutAccuracy       prometheus.Gauge
	predictions           prometheus.Counter
	predictionProbability prometheus.Histogram

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
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

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "attrition",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
		Buckets:     buckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.datasetLoads = auto.NewCounterVec(
		m.counterOpts("dataset_loads_total", "Total number of dataset loads by source and outcome"),
		[]string{"source", "outcome"},
	)
	m.datasetRows = auto.NewHistogram(m.histogramOpts(
		"dataset_rows", "Rows per loaded dataset", prometheus.ExponentialBuckets(10, 4, 8),
	))
	m.cacheHits = auto.NewCounter(m.counterOpts("dataset_cache_hits_total", "Dataset cache hits"))
	m.cacheMisses = auto.NewCounter(m.counterOpts("dataset_cache_misses_total", "Dataset cache misses"))
	m.cacheEntries = auto.NewGauge(m.gaugeOpts("dataset_cache_entries", "Parsed datasets currently cached"))

	m.activeSessions = auto.NewGauge(m.gaugeOpts("active_sessions", "Open dashboard sessions"))
	m.assistantQuestions = auto.NewCounterVec(
		m.counterOpts("assistant_questions_total", "Assistant questions by recognised intent"),
		[]string{"intent"},
	)

	m.predictorBuilds = auto.NewCounterVec(
		m.counterOpts("predictor_builds_total", "Predictor builds by outcome"),
		[]string{"outcome"},
	)
	m.trainingLatency = auto.NewHistogram(m.histogramOpts(
		"predictor_training_latency_milliseconds", "Predictor fit latency in milliseconds", m.histogramBuckets,
	))
	m.holdoutAccuracy = auto.NewGauge(m.gaugeOpts("predictor_accuracy_ratio", "Accuracy of the last fitted predictor"))
	m.predictions = auto.NewCounter(m.counterOpts("predictions_total", "Total number of predictions served"))
	m.predictionProbability = auto.NewHistogram(m.histogramOpts(
		"prediction_probability", "Distribution of predicted attrition probabilities", prometheus.LinearBuckets(0.1, 0.1, 10),
	))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	))
}

// RecordDatasetLoad counts a dataset load. outcome is "ok", "empty" or "error".
func RecordDatasetLoad(source, outcome string) {
	globalManager.datasetLoads.WithLabelValues(source, outcome).Inc()
}

// RecordDatasetRows observes the size of a loaded dataset.
func RecordDatasetRows(rows int) {
	globalManager.datasetRows.Observe(float64(rows))
}

// RecordCacheHit increments the dataset cache hit counter.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss increments the dataset cache miss counter.
func RecordCacheMiss() {
	globalManager.cacheMisses.Inc()
}

// UpdateCacheEntries sets the number of cached datasets.
func UpdateCacheEntries(n int) {
	globalManager.cacheEntries.Set(float64(n))
}

// UpdateActiveSessions sets the number of open sessions.
func UpdateActiveSessions(n int) {
	globalManager.activeSessions.Set(float64(n))
}

// RecordAssistantQuestion counts a question by intent.
func RecordAssistantQuestion(intent string) {
	globalManager.assistantQuestions.WithLabelValues(intent).Inc()
}

// RecordPredictorBuild counts a predictor build by outcome.
func RecordPredictorBuild(outcome string) {
	globalManager.predictorBuilds.WithLabelValues(outcome).Inc()
}

// RecordTrainingLatency records predictor fit latency in milliseconds.
func RecordTrainingLatency(latencyMs float64) {
	globalManager.trainingLatency.Observe(latencyMs)
}

// UpdateHoldoutAccuracy sets the accuracy of the last fitted predictor.
func UpdateHoldoutAccuracy(accuracy float64) {
	globalManager.holdoutAccuracy.Set(accuracy)
}

// RecordPrediction counts a prediction and observes its probability.
func RecordPrediction(probability float64) {
	globalManager.predictions.Inc()
	globalManager.predictionProbability.Observe(probability)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

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
