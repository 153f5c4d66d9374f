// Package metrics provides Prometheus metrics for the activity signup service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Registration metrics
	signups              *prometheus.CounterVec
	unregisters          *prometheus.CounterVec
	registrationErrors   *prometheus.CounterVec
	activityParticipants *prometheus.GaugeVec
	totalActivities      prometheus.Gauge
	totalParticipants    prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// Event pipeline metrics
	queueCapacity      prometheus.Gauge
	queueSize          prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors *prometheus.CounterVec
	eventsPublished    *prometheus.CounterVec
	eventPublishErrors *prometheus.CounterVec
	publishLatency     prometheus.Histogram
	workerCount        prometheus.Gauge

	// System metrics
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

// NewManager creates a new metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "signup",
		subsystem:        "activities",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
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
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.signups = auto.NewCounterVec(
		m.counterOpts("signups_total", "Total number of successful signups by activity"),
		[]string{"activity"},
	)
	m.unregisters = auto.NewCounterVec(
		m.counterOpts("unregisters_total", "Total number of successful unregistrations by activity"),
		[]string{"activity"},
	)
	m.registrationErrors = auto.NewCounterVec(
		m.counterOpts("registration_errors_total", "Rejected signup/unregister calls by operation and reason"),
		[]string{"operation", "reason"},
	)
	m.activityParticipants = auto.NewGaugeVec(
		m.gaugeOpts("participants", "Current number of participants per activity"),
		[]string{"activity"},
	)
	m.totalActivities = auto.NewGauge(m.gaugeOpts("total", "Number of activities in the registry"))
	m.totalParticipants = auto.NewGauge(m.gaugeOpts("participants_total", "Number of participants across all activities"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpErrors = auto.NewCounterVec(
		m.counterOpts("http_errors_total", "HTTP error responses by endpoint, method and error type"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.queueCapacity = auto.NewGauge(m.gaugeOpts("event_queue_capacity", "Capacity of the registration event queue"))
	m.queueSize = auto.NewGauge(m.gaugeOpts("event_queue_size", "Current number of queued registration events"))
	m.queueEnqueued = auto.NewCounter(m.counterOpts("event_queue_enqueued_total", "Registration events accepted by the queue"))
	m.queueDequeued = auto.NewCounter(m.counterOpts("event_queue_dequeued_total", "Registration events handed to workers"))
	m.queueEnqueueErrors = auto.NewCounterVec(
		m.counterOpts("event_queue_enqueue_errors_total", "Registration events dropped at enqueue by reason"),
		[]string{"reason"},
	)
	m.eventsPublished = auto.NewCounterVec(
		m.counterOpts("events_published_total", "Registration events delivered by the publisher"),
		[]string{"type"},
	)
	m.eventPublishErrors = auto.NewCounterVec(
		m.counterOpts("event_publish_errors_total", "Registration events the publisher failed to deliver"),
		[]string{"type"},
	)
	m.publishLatency = auto.NewHistogram(
		m.histogramOpts("event_publish_latency_milliseconds", "Publisher latency in milliseconds", m.histogramBuckets),
	)
	m.workerCount = auto.NewGauge(m.gaugeOpts("event_worker_count", "Number of event publishing workers"))

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	))
}

// Enabled reports whether the manager records observations.
func (m *Manager) Enabled() bool { return m.enabled }

// RecordSignup increments the signup counter for activity.
func (m *Manager) RecordSignup(activity string) {
	if m.enabled {
		m.signups.WithLabelValues(activity).Inc()
	}
}

// RecordUnregister increments the unregister counter for activity.
func (m *Manager) RecordUnregister(activity string) {
	if m.enabled {
		m.unregisters.WithLabelValues(activity).Inc()
	}
}

// RecordRegistrationError counts a rejected signup/unregister.
func (m *Manager) RecordRegistrationError(operation, reason string) {
	if m.enabled {
		m.registrationErrors.WithLabelValues(operation, reason).Inc()
	}
}

// UpdateActivityParticipants sets the participant gauge for activity.
func (m *Manager) UpdateActivityParticipants(activity string, count int) {
	if m.enabled {
		m.activityParticipants.WithLabelValues(activity).Set(float64(count))
	}
}

// UpdateRegistryTotals sets the activity and participant totals.
func (m *Manager) UpdateRegistryTotals(activities, participants int) {
	if m.enabled {
		m.totalActivities.Set(float64(activities))
		m.totalParticipants.Set(float64(participants))
	}
}

// RecordHTTPRequest records a finished request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if m.enabled {
		m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
		m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

// RecordHTTPError counts an error response.
func (m *Manager) RecordHTTPError(endpoint, method, errorType string) {
	if m.enabled {
		m.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// UpdateQueueCapacity sets the queue capacity gauge.
func (m *Manager) UpdateQueueCapacity(capacity int) {
	if m.enabled {
		m.queueCapacity.Set(float64(capacity))
	}
}

// UpdateQueueSize sets the queue length gauge.
func (m *Manager) UpdateQueueSize(size int) {
	if m.enabled {
		m.queueSize.Set(float64(size))
	}
}

// RecordQueueEnqueue counts an accepted event.
func (m *Manager) RecordQueueEnqueue() {
	if m.enabled {
		m.queueEnqueued.Inc()
	}
}

// RecordQueueDequeue counts an event handed to a worker.
func (m *Manager) RecordQueueDequeue() {
	if m.enabled {
		m.queueDequeued.Inc()
	}
}

// RecordQueueEnqueueError counts a dropped event.
func (m *Manager) RecordQueueEnqueueError(reason string) {
	if m.enabled {
		m.queueEnqueueErrors.WithLabelValues(reason).Inc()
	}
}

// RecordEventPublished counts a delivered event and its publish latency.
func (m *Manager) RecordEventPublished(eventType string, latencyMs float64) {
	if m.enabled {
		m.eventsPublished.WithLabelValues(eventType).Inc()
		m.publishLatency.Observe(latencyMs)
	}
}

// RecordEventPublishError counts a failed delivery.
func (m *Manager) RecordEventPublishError(eventType string) {
	if m.enabled {
		m.eventPublishErrors.WithLabelValues(eventType).Inc()
	}
}

// UpdateWorkerCount sets the worker gauge.
func (m *Manager) UpdateWorkerCount(count int) {
	if m.enabled {
		m.workerCount.Set(float64(count))
	}
}

// UpdateSystemMemoryUsage sets the memory gauge.
func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) {
	if m.enabled {
		m.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func (m *Manager) UpdateSystemGoroutineCount(count int) {
	if m.enabled {
		m.systemGoroutineCount.Set(float64(count))
	}
}

// RecordSystemGCPauseTime observes an average GC pause.
func (m *Manager) RecordSystemGCPauseTime(pauseMs float64) {
	if m.enabled {
		m.systemGCPauseTime.Observe(pauseMs)
	}
}

// Package-level helpers delegate to the global manager.

// RecordSignup increments the signup counter for activity.
func RecordSignup(activity string) { globalManager.RecordSignup(activity) }

// RecordUnregister increments the unregister counter for activity.
func RecordUnregister(activity string) { globalManager.RecordUnregister(activity) }

// RecordRegistrationError counts a rejected signup/unregister.
func RecordRegistrationError(operation, reason string) {
	globalManager.RecordRegistrationError(operation, reason)
}

// UpdateActivityParticipants sets the participant gauge for activity.
func UpdateActivityParticipants(activity string, count int) {
	globalManager.UpdateActivityParticipants(activity, count)
}

// UpdateRegistryTotals sets the activity and participant totals.
func UpdateRegistryTotals(activities, participants int) {
	globalManager.UpdateRegistryTotals(activities, participants)
}

// RecordHTTPRequest records a finished request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordHTTPError counts an error response.
func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.RecordHTTPError(endpoint, method, errorType)
}

// UpdateQueueCapacity sets the queue capacity gauge.
func UpdateQueueCapacity(capacity int) { globalManager.UpdateQueueCapacity(capacity) }

// UpdateQueueSize sets the queue length gauge.
func UpdateQueueSize(size int) { globalManager.UpdateQueueSize(size) }

// RecordQueueEnqueue counts an accepted event.
func RecordQueueEnqueue() { globalManager.RecordQueueEnqueue() }

// RecordQueueDequeue counts an event handed to a worker.
func RecordQueueDequeue() { globalManager.RecordQueueDequeue() }

// RecordQueueEnqueueError counts a dropped event.
func RecordQueueEnqueueError(reason string) { globalManager.RecordQueueEnqueueError(reason) }

// RecordEventPublished counts a delivered event and its publish latency.
func RecordEventPublished(eventType string, latencyMs float64) {
	globalManager.RecordEventPublished(eventType, latencyMs)
}

// RecordEventPublishError counts a failed delivery.
func RecordEventPublishError(eventType string) { globalManager.RecordEventPublishError(eventType) }

// UpdateWorkerCount sets the worker gauge.
func UpdateWorkerCount(count int) { globalManager.UpdateWorkerCount(count) }

// UpdateSystemMemoryUsage sets the memory gauge.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.UpdateSystemMemoryUsage(bytes) }

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) { globalManager.UpdateSystemGoroutineCount(count) }

// RecordSystemGCPauseTime observes an average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) { globalManager.RecordSystemGCPauseTime(pauseMs) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
