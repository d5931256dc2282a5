package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all warehouse-ops metrics
type Metrics struct {
	serviceName string
	registry    *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Kafka metrics
	KafkaEventsPublished *prometheus.CounterVec
	KafkaPublishDuration *prometheus.HistogramVec

	// MongoDB metrics
	MongoDBOperations        *prometheus.CounterVec
	MongoDBOperationDuration *prometheus.HistogramVec

	// Outbox metrics
	OutboxPending   prometheus.Gauge
	OutboxPublished *prometheus.CounterVec
	OutboxRetries   *prometheus.CounterVec

	// Cache metrics
	CacheRequests      *prometheus.CounterVec
	CacheInvalidations *prometheus.CounterVec

	// Temporal metrics
	WorkflowsStarted    *prometheus.CounterVec
	WorkflowSignals     *prometheus.CounterVec
	ActivitiesCompleted *prometheus.CounterVec
	ActivityDuration    *prometheus.HistogramVec

	// Business metrics
	PickTaskTransitions *prometheus.CounterVec
	PackTaskTransitions *prometheus.CounterVec
	ItemsPicked         *prometheus.CounterVec
	ItemsUnavailable    prometheus.Counter
	ScanMismatches      *prometheus.CounterVec
	PackagesCreated     *prometheus.CounterVec
	OrderTransitions    *prometheus.CounterVec
	ReturnTransitions   *prometheus.CounterVec
	CycleCountsRecorded *prometheus.CounterVec
	PickTasksOverdue    prometheus.Gauge

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec
	CircuitBreakerTrips *prometheus.CounterVec
}

// Config holds metrics configuration
type Config struct {
	ServiceName string
	Namespace   string
}

// DefaultConfig returns default metrics configuration
func DefaultConfig(serviceName string) *Config {
	return &Config{
		ServiceName: serviceName,
		Namespace:   "wms",
	}
}

// New creates a new Metrics instance backed by its own registry
func New(config *Config) *Metrics {
	registry := prometheus.NewRegistry()

	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		serviceName: config.ServiceName,
		registry:    registry,
	}

	// HTTP metrics
	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"service", "method", "path"},
	)

	m.HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Name:        "http_requests_in_flight",
			Help:        "Number of HTTP requests currently being processed",
			ConstLabels: prometheus.Labels{"service": config.ServiceName},
		},
	)

	// Kafka metrics
	m.KafkaEventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "kafka_events_published_total",
			Help:      "Total number of Kafka events published",
		},
		[]string{"service", "topic", "event_type", "status"},
	)

	m.KafkaPublishDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "kafka_publish_duration_seconds",
			Help:      "Kafka publish duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"service", "topic"},
	)

	// MongoDB metrics
	m.MongoDBOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "mongodb_operations_total",
			Help:      "Total number of MongoDB operations",
		},
		[]string{"service", "collection", "operation", "status"},
	)

	m.MongoDBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "mongodb_operation_duration_seconds",
			Help:      "MongoDB operation duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"service", "collection", "operation"},
	)

	// Outbox metrics
	m.OutboxPending = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Name:        "outbox_events_pending",
			Help:        "Number of outbox events waiting to be published",
			ConstLabels: prometheus.Labels{"service": config.ServiceName},
		},
	)

	m.OutboxPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "outbox_events_published_total",
			Help:      "Total number of outbox events relayed to Kafka",
		},
		[]string{"service", "event_type", "status"},
	)

	m.OutboxRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "outbox_event_retries_total",
			Help:      "Total number of outbox publish retries",
		},
		[]string{"service", "event_type"},
	)

	// Cache metrics
	m.CacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "cache_requests_total",
			Help:      "Total number of query cache lookups",
		},
		[]string{"service", "resource", "result"},
	)

	m.CacheInvalidations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "cache_invalidations_total",
			Help:      "Total number of query cache invalidations",
		},
		[]string{"service", "resource"},
	)

	// Temporal metrics
	m.WorkflowsStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "temporal_workflows_started_total",
			Help:      "Total number of Temporal workflows started",
		},
		[]string{"service", "workflow_type", "status"},
	)

	m.WorkflowSignals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "temporal_workflow_signals_total",
			Help:      "Total number of signals sent to Temporal workflows",
		},
		[]string{"service", "signal", "status"},
	)

	m.ActivitiesCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "temporal_activities_completed_total",
			Help:      "Total number of Temporal activities completed",
		},
		[]string{"service", "activity_type", "status"},
	)

	m.ActivityDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "temporal_activity_duration_seconds",
			Help:      "Temporal activity duration in seconds",
			Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30},
		},
		[]string{"service", "activity_type"},
	)

	// Business metrics
	m.PickTaskTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "pick_task_transitions_total",
			Help:      "Total number of pick task status transitions",
		},
		[]string{"service", "status"},
	)

	m.PackTaskTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "pack_task_transitions_total",
			Help:      "Total number of pack task status transitions",
		},
		[]string{"service", "status"},
	)

	m.ItemsPicked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "items_picked_total",
			Help:      "Total number of pick task items picked",
		},
		[]string{"service", "partial"},
	)

	m.ItemsUnavailable = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "items_unavailable_total",
			Help:        "Total number of pick task items marked unavailable",
			ConstLabels: prometheus.Labels{"service": config.ServiceName},
		},
	)

	m.ScanMismatches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "scan_mismatches_total",
			Help:      "Total number of rejected scan verifications",
		},
		[]string{"service", "scan"},
	)

	m.PackagesCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "packages_created_total",
			Help:      "Total number of shipment packages created",
		},
		[]string{"service", "package_type"},
	)

	m.OrderTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "order_transitions_total",
			Help:      "Total number of order status transitions",
		},
		[]string{"service", "status"},
	)

	m.ReturnTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "return_transitions_total",
			Help:      "Total number of return request status transitions",
		},
		[]string{"service", "status"},
	)

	m.CycleCountsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "cycle_counts_recorded_total",
			Help:      "Total number of cycle count item counts recorded",
		},
		[]string{"service", "result"},
	)

	m.PickTasksOverdue = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Name:        "pick_tasks_overdue",
			Help:        "Number of open pick tasks past their due date",
			ConstLabels: prometheus.Labels{"service": config.ServiceName},
		},
	)

	// Circuit breaker metrics
	m.CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"service", "name"},
	)

	m.CircuitBreakerTrips = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "circuit_breaker_trips_total",
			Help:      "Total number of circuit breaker trips",
		},
		[]string{"service", "name"},
	)

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.KafkaEventsPublished,
		m.KafkaPublishDuration,
		m.MongoDBOperations,
		m.MongoDBOperationDuration,
		m.OutboxPending,
		m.OutboxPublished,
		m.OutboxRetries,
		m.CacheRequests,
		m.CacheInvalidations,
		m.WorkflowsStarted,
		m.WorkflowSignals,
		m.ActivitiesCompleted,
		m.ActivityDuration,
		m.PickTaskTransitions,
		m.PackTaskTransitions,
		m.ItemsPicked,
		m.ItemsUnavailable,
		m.ScanMismatches,
		m.PackagesCreated,
		m.OrderTransitions,
		m.ReturnTransitions,
		m.CycleCountsRecorded,
		m.PickTasksOverdue,
		m.CircuitBreakerState,
		m.CircuitBreakerTrips,
	)

	return m
}

// Handler returns an HTTP handler for the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	statusStr := strconv.Itoa(status)
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, statusStr).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(duration.Seconds())
}

// IncrementHTTPRequestsInFlight increments in-flight requests
func (m *Metrics) IncrementHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Inc()
}

// DecrementHTTPRequestsInFlight decrements in-flight requests
func (m *Metrics) DecrementHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Dec()
}

// RecordKafkaPublish records a Kafka publish event
func (m *Metrics) RecordKafkaPublish(topic, eventType string, success bool, duration time.Duration) {
	m.KafkaEventsPublished.WithLabelValues(m.serviceName, topic, eventType, statusLabel(success)).Inc()
	m.KafkaPublishDuration.WithLabelValues(m.serviceName, topic).Observe(duration.Seconds())
}

// RecordMongoDBOperation records a MongoDB operation
func (m *Metrics) RecordMongoDBOperation(collection, operation string, success bool, duration time.Duration) {
	m.MongoDBOperations.WithLabelValues(m.serviceName, collection, operation, statusLabel(success)).Inc()
	m.MongoDBOperationDuration.WithLabelValues(m.serviceName, collection, operation).Observe(duration.Seconds())
}

// SetOutboxPending sets the number of unpublished outbox events
func (m *Metrics) SetOutboxPending(count int) {
	m.OutboxPending.Set(float64(count))
}

// RecordOutboxPublish records the outcome of relaying one outbox event
func (m *Metrics) RecordOutboxPublish(eventType string, success bool) {
	m.OutboxPublished.WithLabelValues(m.serviceName, eventType, statusLabel(success)).Inc()
}

// RecordOutboxRetry records a retried outbox event
func (m *Metrics) RecordOutboxRetry(eventType string) {
	m.OutboxRetries.WithLabelValues(m.serviceName, eventType).Inc()
}

// RecordCacheLookup records a query cache hit or miss
func (m *Metrics) RecordCacheLookup(resource string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheRequests.WithLabelValues(m.serviceName, resource, result).Inc()
}

// RecordCacheInvalidation records a resource-wide cache invalidation
func (m *Metrics) RecordCacheInvalidation(resource string) {
	m.CacheInvalidations.WithLabelValues(m.serviceName, resource).Inc()
}

// RecordWorkflowStarted records a workflow start attempt
func (m *Metrics) RecordWorkflowStarted(workflowType string, success bool) {
	m.WorkflowsStarted.WithLabelValues(m.serviceName, workflowType, statusLabel(success)).Inc()
}

// RecordWorkflowSignal records a signal sent to a workflow
func (m *Metrics) RecordWorkflowSignal(signal string, success bool) {
	m.WorkflowSignals.WithLabelValues(m.serviceName, signal, statusLabel(success)).Inc()
}

// RecordActivityCompleted records an activity completion
func (m *Metrics) RecordActivityCompleted(activityType string, success bool, duration time.Duration) {
	m.ActivitiesCompleted.WithLabelValues(m.serviceName, activityType, statusLabel(success)).Inc()
	m.ActivityDuration.WithLabelValues(m.serviceName, activityType).Observe(duration.Seconds())
}

// RecordPickTaskTransition records a pick task entering status
func (m *Metrics) RecordPickTaskTransition(status string) {
	m.PickTaskTransitions.WithLabelValues(m.serviceName, status).Inc()
}

// RecordPackTaskTransition records a pack task entering status
func (m *Metrics) RecordPackTaskTransition(status string) {
	m.PackTaskTransitions.WithLabelValues(m.serviceName, status).Inc()
}

// RecordItemPicked records a picked item
func (m *Metrics) RecordItemPicked(partial bool) {
	m.ItemsPicked.WithLabelValues(m.serviceName, strconv.FormatBool(partial)).Inc()
}

// RecordItemUnavailable records an item marked unavailable
func (m *Metrics) RecordItemUnavailable() {
	m.ItemsUnavailable.Inc()
}

// RecordScanMismatch records a rejected scan; scan is "item" or "location"
func (m *Metrics) RecordScanMismatch(scan string) {
	m.ScanMismatches.WithLabelValues(m.serviceName, scan).Inc()
}

// RecordPackageCreated records a new shipment package
func (m *Metrics) RecordPackageCreated(packageType string) {
	m.PackagesCreated.WithLabelValues(m.serviceName, packageType).Inc()
}

// RecordOrderTransition records an order entering status
func (m *Metrics) RecordOrderTransition(status string) {
	m.OrderTransitions.WithLabelValues(m.serviceName, status).Inc()
}

// RecordReturnTransition records a return request entering status
func (m *Metrics) RecordReturnTransition(status string) {
	m.ReturnTransitions.WithLabelValues(m.serviceName, status).Inc()
}

// RecordCycleCount records a counted cycle count item; result is its new status
func (m *Metrics) RecordCycleCount(result string) {
	m.CycleCountsRecorded.WithLabelValues(m.serviceName, result).Inc()
}

// SetPickTasksOverdue sets the overdue pick task gauge
func (m *Metrics) SetPickTasksOverdue(count int) {
	m.PickTasksOverdue.Set(float64(count))
}

// SetCircuitBreakerState sets the circuit breaker state gauge
func (m *Metrics) SetCircuitBreakerState(name string, state int) {
	m.CircuitBreakerState.WithLabelValues(m.serviceName, name).Set(float64(state))
}

// RecordCircuitBreakerTrip records a circuit breaker trip
func (m *Metrics) RecordCircuitBreakerTrip(name string) {
	m.CircuitBreakerTrips.WithLabelValues(m.serviceName, name).Inc()
}
