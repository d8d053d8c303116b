// Package metrics provides Prometheus metrics for the remonster analysis service.
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

// analysisBuckets covers offline replies (tens of ms) up to the request deadline.
var analysisBuckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000} //nolint:gochecknoglobals // bucket layout

// Manager manages all Prometheus metrics for the remonster service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Workflow Metrics - Analysis lifecycle
	analysesTotal     *prometheus.CounterVec
	analysisLatency   prometheus.Histogram
	staleReplies      prometheus.Counter
	phaseTransitions  *prometheus.CounterVec
	colorSpaceToggles *prometheus.CounterVec

	// Sampler Metrics
	visualizations *prometheus.CounterVec
	samplerCells   *prometheus.GaugeVec

	// Session Metrics
	activeSessions  prometheus.Gauge
	sessionsEvicted prometheus.Counter

	// Analyzer Metrics - Remote analysis service health
	analyzerResponses *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Enhanced Error Metrics - Detailed error tracking
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

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
// A disabled manager still records, but into a private registry that is
// never exposed.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "remonster",
		subsystem:        "analysis",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	if !m.enabled {
		m.registry = prometheus.NewRegistry()
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// RefreshInterval is how often periodic gauges should be refreshed.
func (m *Manager) RefreshInterval() time.Duration {
	return m.refreshInterval
}

// Enabled reports whether the manager's metrics are exported.
func (m *Manager) Enabled() bool {
	return m.enabled
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
		Buckets:     buckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Workflow Metrics
	m.analysesTotal = auto.NewCounterVec(
		m.counterOpts("analyses_total", "Total number of settled analyses by outcome"),
		[]string{"outcome"},
	)
	m.analysisLatency = auto.NewHistogram(
		m.histogramOpts("analysis_latency_milliseconds", "Time from submission to settled reply in milliseconds", analysisBuckets),
	)
	m.staleReplies = auto.NewCounter(
		m.counterOpts("stale_replies_total", "Replies discarded because a newer submission superseded them"),
	)
	m.phaseTransitions = auto.NewCounterVec(
		m.counterOpts("phase_transitions_total", "Workflow phase transitions"),
		[]string{"from", "to"},
	)
	m.colorSpaceToggles = auto.NewCounterVec(
		m.counterOpts("color_space_toggles_total", "Color space switches by target space"),
		[]string{"color_space"},
	)

	// Sampler Metrics
	m.visualizations = auto.NewCounterVec(
		m.counterOpts("visualizations_total", "Visualizations sampled by color space"),
		[]string{"color_space"},
	)
	m.samplerCells = auto.NewGaugeVec(
		m.gaugeOpts("sampler_cells", "Cells in the most recent visualization by color space"),
		[]string{"color_space"},
	)

	// Session Metrics
	m.activeSessions = auto.NewGauge(
		m.gaugeOpts("active_sessions", "Current number of live sessions"),
	)
	m.sessionsEvicted = auto.NewCounter(
		m.counterOpts("sessions_evicted_total", "Sessions evicted to make room for new ones"),
	)

	// Analyzer Metrics
	m.analyzerResponses = auto.NewCounterVec(
		m.counterOpts("analyzer_responses_total", "Responses from the remote analyzer by status code"),
		[]string{"status_code"},
	)

	// HTTP Performance Metrics - User experience indicators
	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds (user experience)", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	// Enhanced Error Metrics
	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total errors by component"),
		[]string{"component", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Total errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total errors by HTTP endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		m.histogramOpts("error_latency_milliseconds", "Latency of requests that ended in error", m.histogramBuckets),
		[]string{"component", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(
		m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"),
	)
	m.systemGoroutineCount = auto.NewGauge(
		m.gaugeOpts("system_goroutine_count", "Number of goroutines"),
	)
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// RecordAnalysis records one settled analysis. latencyMs is zero for
// submissions that never reached the analyzer.
func RecordAnalysis(outcome string, latencyMs float64) {
	globalManager.analysesTotal.WithLabelValues(outcome).Inc()
	if latencyMs > 0 {
		globalManager.analysisLatency.Observe(latencyMs)
	}
}

// RecordStaleReplyDropped increments the superseded replies counter.
func RecordStaleReplyDropped() {
	globalManager.staleReplies.Inc()
}

// RecordPhaseTransition records a workflow phase change.
func RecordPhaseTransition(from, to string) {
	globalManager.phaseTransitions.WithLabelValues(from, to).Inc()
}

// RecordColorSpaceToggle records a switch to the given color space.
func RecordColorSpaceToggle(to string) {
	globalManager.colorSpaceToggles.WithLabelValues(to).Inc()
}

// RecordSamplerCells records a sampled visualization and its cell count.
func RecordSamplerCells(colorSpace string, cells int) {
	globalManager.visualizations.WithLabelValues(colorSpace).Inc()
	globalManager.samplerCells.WithLabelValues(colorSpace).Set(float64(cells))
}

// UpdateActiveSessions sets the live session count.
func UpdateActiveSessions(count int) {
	globalManager.activeSessions.Set(float64(count))
}

// RecordSessionEvicted increments the evicted sessions counter.
func RecordSessionEvicted() {
	globalManager.sessionsEvicted.Inc()
}

// RecordAnalyzerStatus records a remote analyzer response status, or
// "error" when no response arrived.
func RecordAnalyzerStatus(statusCode string) {
	globalManager.analyzerResponses.WithLabelValues(statusCode).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Enhanced Error Metrics Functions

// RecordErrorByComponent records an error by component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error by HTTP endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records error latency.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System Performance Metrics Functions

// UpdateSystemMemoryUsage sets the system memory usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// RefreshInterval returns the global manager's refresh interval.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}
