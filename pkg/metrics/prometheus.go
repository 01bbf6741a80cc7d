// Package metrics provides Prometheus metrics for the founder matching service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Matching
	matchRequests *prometheus.CounterVec
	matchLatency  prometheus.Histogram
	matchResults  prometheus.Histogram

	// Prediction
	predictions       *prometheus.CounterVec
	predictionLatency prometheus.Histogram

	// Dataset and features
	datasetRows      *prometheus.GaugeVec
	featuresDerived  prometheus.Gauge
	featuresDropped  prometheus.Gauge
	featureSetLoaded prometheus.Counter

	// Profile store
	storeOperations *prometheus.CounterVec
	profileCount    prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System
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
		namespace:        "foundermatch",
		subsystem:        "engine",
		histogramBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	auto := promauto.With(m.registry)

	m.matchRequests = auto.NewCounterVec(
		m.counterOpts("match_requests_total", "Nearest-neighbor searches by outcome"),
		[]string{"outcome"},
	)
	m.matchLatency = auto.NewHistogram(
		m.histogramOpts("match_latency_milliseconds", "Nearest-neighbor search latency in milliseconds", m.histogramBuckets),
	)
	m.matchResults = auto.NewHistogram(
		m.histogramOpts("match_results", "Number of matches returned per search", []float64{0, 1, 2, 3, 5, 10, 20, 50, 100}),
	)

	m.predictions = auto.NewCounterVec(
		m.counterOpts("predictions_total", "Prediction reports by outcome"),
		[]string{"outcome"},
	)
	m.predictionLatency = auto.NewHistogram(
		m.histogramOpts("prediction_latency_milliseconds", "Prediction aggregation latency in milliseconds", m.histogramBuckets),
	)

	m.datasetRows = auto.NewGaugeVec(
		m.gaugeOpts("dataset_rows", "Rows read from each historical table on the last pull"),
		[]string{"table"},
	)
	m.featuresDerived = auto.NewGauge(
		m.gaugeOpts("feature_vectors", "Feature vectors in the active feature set"),
	)
	m.featuresDropped = auto.NewGauge(
		m.gaugeOpts("feature_records_dropped", "Education records dropped during feature derivation"),
	)
	m.featureSetLoaded = auto.NewCounter(
		m.counterOpts("feature_set_builds_total", "Number of feature set derivations"),
	)

	m.storeOperations = auto.NewCounterVec(
		m.counterOpts("store_operations_total", "Profile store operations by operation and outcome"),
		[]string{"operation", "outcome"},
	)
	m.profileCount = auto.NewGauge(
		m.gaugeOpts("saved_profiles", "Profiles in the profile document"),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_seconds", "HTTP request duration in seconds", prometheus.DefBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Total number of errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by HTTP endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		m.histogramOpts("error_latency_milliseconds", "Latency of operations that resulted in errors", m.histogramBuckets),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// RecordMatchRequest counts one search with its outcome (ok, empty_dataset, invalid).
func RecordMatchRequest(outcome string) {
	globalManager.matchRequests.WithLabelValues(outcome).Inc()
}

// RecordMatchLatency records search latency in milliseconds.
func RecordMatchLatency(latencyMs float64) {
	globalManager.matchLatency.Observe(latencyMs)
}

// ObserveMatchResults records how many matches a search returned.
func ObserveMatchResults(n int) {
	globalManager.matchResults.Observe(float64(n))
}

// RecordPrediction counts one prediction with its outcome.
func RecordPrediction(outcome string) {
	globalManager.predictions.WithLabelValues(outcome).Inc()
}

// RecordPredictionLatency records aggregation latency in milliseconds.
func RecordPredictionLatency(latencyMs float64) {
	globalManager.predictionLatency.Observe(latencyMs)
}

// RecordDatasetRows sets the number of rows read from a table.
func RecordDatasetRows(table string, rows int) {
	globalManager.datasetRows.WithLabelValues(table).Set(float64(rows))
}

// RecordFeaturesDerived records the outcome of a feature derivation.
func RecordFeaturesDerived(kept, dropped int) {
	globalManager.featureSetLoaded.Inc()
	globalManager.featuresDerived.Set(float64(kept))
	globalManager.featuresDropped.Set(float64(dropped))
}

// RecordStoreOperation counts one profile store operation.
func RecordStoreOperation(operation, outcome string) {
	globalManager.storeOperations.WithLabelValues(operation, outcome).Inc()
}

// UpdateProfileCount sets the number of saved profiles.
func UpdateProfileCount(count int) {
	globalManager.profileCount.Set(float64(count))
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

// RecordErrorsByComponent adds n errors with component and type labels.
func RecordErrorsByComponent(component, errorType string, n int) {
	if n > 0 {
		globalManager.errorRateByComponent.WithLabelValues(component, errorType).Add(float64(n))
	}
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
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
