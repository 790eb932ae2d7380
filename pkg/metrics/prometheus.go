// Package metrics provides Prometheus metrics for the LUMEN service.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// vendorBuckets covers fast cache-like replies up to the 15s vendor timeout.
var vendorBuckets = []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 15000} //nolint:gochecknoglobals // fixed bucket layout

// Manager manages all Prometheus metrics for the LUMEN service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          atomic.Bool
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Chat
	chatTurns        *prometheus.CounterVec
	chatTurnLatency  prometheus.Histogram
	vendorLatency    *prometheus.HistogramVec
	vendorErrors     *prometheus.CounterVec
	speechNotFound   prometheus.Counter
	speechShapeMatch *prometheus.CounterVec

	// Eligibility
	eligibilityScore prometheus.Histogram
	eligibilityTiers *prometheus.CounterVec

	// Accounts
	authEvents *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Archive queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueueRate   prometheus.Counter
	queueDequeueRate   prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Archive workers
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter
	transcriptsArchived     prometheus.Counter

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
		namespace:        "lumen",
		subsystem:        "api",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	m.enabled.Store(true)
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(base string) string {
	if m.metricPrefix == "" {
		return base
	}
	return m.metricPrefix + "_" + base
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.chatTurns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("chat_turns_total"),
		Help:        "Chat turns by outcome (ok, failed, translation_degraded, speech_degraded, degraded)",
		ConstLabels: labels,
	}, []string{"outcome"})

	m.chatTurnLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("chat_turn_latency_milliseconds"),
		Help:        "End-to-end latency of a chat turn in milliseconds",
		Buckets:     vendorBuckets,
		ConstLabels: labels,
	})

	m.vendorLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("vendor_latency_milliseconds"),
		Help:        "Outbound vendor call latency in milliseconds",
		Buckets:     vendorBuckets,
		ConstLabels: labels,
	}, []string{"vendor", "operation"})

	m.vendorErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("vendor_errors_total"),
		Help:        "Failed outbound vendor calls",
		ConstLabels: labels,
	}, []string{"vendor", "operation"})

	m.speechNotFound = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("speech_audio_not_found_total"),
		Help:        "Speech responses with no recognizable audio payload",
		ConstLabels: labels,
	})

	m.speechShapeMatch = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("speech_shape_matches_total"),
		Help:        "Speech responses by the response shape that yielded the audio",
		ConstLabels: labels,
	}, []string{"shape"})

	m.eligibilityScore = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("eligibility_score"),
		Help:        "Distribution of computed eligibility scores",
		Buckets:     []float64{10, 20, 30, 40, 50, 65, 75, 85, 95, 100},
		ConstLabels: labels,
	})

	m.eligibilityTiers = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("eligibility_risk_tier_total"),
		Help:        "Eligibility results by risk tier",
		ConstLabels: labels,
	}, []string{"tier"})

	m.authEvents = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("auth_events_total"),
		Help:        "Registration and login attempts by result",
		ConstLabels: labels,
	}, []string{"action", "result"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_requests_total"),
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_request_duration_milliseconds"),
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("archive_queue_size"),
		Help:        "Transcripts waiting to be archived",
		ConstLabels: labels,
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("archive_queue_capacity"),
		Help:        "Maximum number of queued transcripts",
		ConstLabels: labels,
	})

	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("archive_queue_utilization"),
		Help:        "Archive queue fill ratio (0-1)",
		ConstLabels: labels,
	})

	m.queueEnqueueRate = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("archive_queue_enqueued_total"),
		Help:        "Transcripts accepted by the archive queue",
		ConstLabels: labels,
	})

	m.queueDequeueRate = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("archive_queue_dequeued_total"),
		Help:        "Transcripts handed to archive workers",
		ConstLabels: labels,
	})

	m.queueEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("archive_queue_rejected_total"),
		Help:        "Transcripts dropped because the queue was full or closed",
		ConstLabels: labels,
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("archive_worker_count"),
		Help:        "Number of archive workers",
		ConstLabels: labels,
	})

	m.workerProcessingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("archive_worker_latency_milliseconds"),
		Help:        "Time to persist one transcript in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("archive_worker_errors_total"),
		Help:        "Transcripts that failed to persist",
		ConstLabels: labels,
	})

	m.transcriptsArchived = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("transcripts_archived_total"),
		Help:        "Transcripts persisted to the store",
		ConstLabels: labels,
	})

	m.errorRateByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("errors_by_component_total"),
		Help:        "Errors by component and type",
		ConstLabels: labels,
	}, []string{"component", "error_type"})

	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("errors_by_type_total"),
		Help:        "Errors by type and severity",
		ConstLabels: labels,
	}, []string{"error_type", "severity"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("errors_by_endpoint_total"),
		Help:        "Errors by HTTP endpoint",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "error_type"})

	m.errorLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("error_latency_milliseconds"),
		Help:        "Latency of failed operations in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_memory_usage_bytes"),
		Help:        "System memory usage in bytes",
		ConstLabels: labels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_goroutine_count"),
		Help:        "Number of goroutines",
		ConstLabels: labels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("system_gc_pause_time_milliseconds"),
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: labels,
	})
}

// Enabled reports whether recording is switched on for this manager.
func (m *Manager) Enabled() bool { return m.enabled.Load() }

// SetEnabled switches recording by the package-level helpers on or off.
// Registered series keep their last values while recording is off.
func SetEnabled(enabled bool) { globalManager.enabled.Store(enabled) }

func active() bool { return globalManager.enabled.Load() }

// RecordChatTurn counts a chat turn by outcome and records its latency.
func RecordChatTurn(outcome string, latencyMs float64) {
	if !active() {
		return
	}
	globalManager.chatTurns.WithLabelValues(outcome).Inc()
	globalManager.chatTurnLatency.Observe(latencyMs)
}

// RecordVendorCall records the latency of an outbound vendor call and counts it
// as an error when failed is true.
func RecordVendorCall(vendor, operation string, latencyMs float64, failed bool) {
	if !active() {
		return
	}
	globalManager.vendorLatency.WithLabelValues(vendor, operation).Observe(latencyMs)
	if failed {
		globalManager.vendorErrors.WithLabelValues(vendor, operation).Inc()
	}
}

// RecordSpeechShape counts which response shape produced the audio payload.
func RecordSpeechShape(shape string) {
	if !active() {
		return
	}
	globalManager.speechShapeMatch.WithLabelValues(shape).Inc()
}

// RecordSpeechNotFound counts speech responses without audio.
func RecordSpeechNotFound() {
	if !active() {
		return
	}
	globalManager.speechNotFound.Inc()
}

// RecordEligibility records a computed score and its risk tier.
func RecordEligibility(score float64, tier string) {
	if !active() {
		return
	}
	globalManager.eligibilityScore.Observe(score)
	globalManager.eligibilityTiers.WithLabelValues(tier).Inc()
}

// RecordAuthEvent counts a register/login attempt.
func RecordAuthEvent(action, result string) {
	if !active() {
		return
	}
	globalManager.authEvents.WithLabelValues(action, result).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !active() {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !active() {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// UpdateQueueSize updates the current archive queue size.
func UpdateQueueSize(size int) {
	if !active() {
		return
	}
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity updates the archive queue capacity.
func UpdateQueueCapacity(capacity int) {
	if !active() {
		return
	}
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization updates the archive queue fill ratio.
func UpdateQueueUtilization(utilization float64) {
	if !active() {
		return
	}
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue counts an accepted transcript.
func RecordQueueEnqueue() {
	if !active() {
		return
	}
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueDequeue counts a transcript handed to a worker.
func RecordQueueDequeue() {
	if !active() {
		return
	}
	globalManager.queueDequeueRate.Inc()
}

// RecordQueueEnqueueError counts a rejected transcript.
func RecordQueueEnqueueError() {
	if !active() {
		return
	}
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerCount updates the number of archive workers.
func UpdateWorkerCount(count int) {
	if !active() {
		return
	}
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records time spent persisting a transcript.
func RecordWorkerProcessingLatency(latencyMs float64) {
	if !active() {
		return
	}
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError counts a failed persist.
func RecordWorkerError() {
	if !active() {
		return
	}
	globalManager.workerErrors.Inc()
}

// RecordTranscriptArchived counts a persisted transcript.
func RecordTranscriptArchived() {
	if !active() {
		return
	}
	globalManager.transcriptsArchived.Inc()
}

// RecordErrorByComponent records an error by component.
func RecordErrorByComponent(component, errorType string) {
	if !active() {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	if !active() {
		return
	}
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error by HTTP endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !active() {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of a failed operation.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	if !active() {
		return
	}
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage updates the memory usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !active() {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount updates the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	if !active() {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records the average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	if !active() {
		return
	}
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
