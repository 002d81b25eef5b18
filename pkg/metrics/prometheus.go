// Package metrics provides Prometheus metrics for the procurement classifier.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// confidenceBuckets spans the rule confidences, 0.1 for unknown lines up to 1.0.
var confidenceBuckets = []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.85, 0.9, 0.95, 1} //nolint:gochecknoglobals // static buckets

// Manager manages all Prometheus metrics for the classifier.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Classification metrics
	rowsProcessed prometheus.Counter
	rowsDuplicate prometheus.Counter
	rowsInvalid   prometheus.Counter
	rowsSkipped   prometheus.Counter
	rowsFailed    prometheus.Counter
	verdicts      *prometheus.CounterVec
	requirements  *prometheus.CounterVec
	confidence    prometheus.Histogram
	buildLatency  prometheus.Histogram
	batchDuration prometheus.Gauge
	batchLastUnix prometheus.Gauge

	// Repository metrics
	repositoryShardCount      prometheus.Gauge
	repositoryRecordsTotal    prometheus.Gauge
	repositoryRecordsPerShard *prometheus.GaugeVec
	repositorySaveLatency     prometheus.Histogram

	// Queue metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueueRate   prometheus.Counter
	queueDequeueRate   prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Worker metrics
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrorRate         prometheus.Counter

	errorRateByComponent *prometheus.CounterVec
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
		namespace:        "nyusatsu",
		subsystem:        "classifier",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: buckets,
	})
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	m.rowsProcessed = m.counter("rows_processed_total", "Total number of rows classified into records")
	m.rowsDuplicate = m.counter("rows_duplicate_total", "Total number of rows dropped as repeated case ids")
	m.rowsInvalid = m.counter("rows_invalid_total", "Total number of rows rejected for malformed fields")
	m.rowsSkipped = m.counter("rows_skipped_total", "Total number of rows skipped for a missing case id")
	m.rowsFailed = m.counter("rows_failed_total", "Total number of rows that failed to be stored")
	m.verdicts = m.counterVec("verdicts_total", "Eligibility verdicts by outcome", "outcome")
	m.requirements = m.counterVec("requirements_total", "Parsed qualification requirements by kind", "kind")
	m.confidence = m.histogram("qualification_confidence", "Per-case mean qualification confidence", confidenceBuckets)
	m.buildLatency = m.histogram("build_latency_milliseconds", "Record build latency in milliseconds", m.histogramBuckets)
	m.batchDuration = m.gauge("batch_duration_seconds", "Duration of the last batch run in seconds")
	m.batchLastUnix = m.gauge("batch_last_unix", "Unix timestamp of the last completed batch run")

	m.repositoryShardCount = m.gauge("repository_shard_count", "Total number of repository shards")
	m.repositoryRecordsTotal = m.gauge("repository_records_total", "Total number of records across all shards")
	m.repositoryRecordsPerShard = promauto.With(m.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "repository_records_per_shard",
			Help:        "Number of records per shard",
			ConstLabels: m.constLabels,
		},
		[]string{"shard_id"},
	)
	m.repositorySaveLatency = m.histogram("repository_save_latency_milliseconds", "Repository save latency in milliseconds", m.histogramBuckets)

	m.queueSize = m.gauge("queue_size", "Current number of rows waiting in the queue")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum queue capacity")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Queue utilization ratio (current size / capacity)")
	m.queueEnqueueRate = m.counter("queue_enqueue_total", "Total number of rows enqueued")
	m.queueDequeueRate = m.counter("queue_dequeue_total", "Total number of rows dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Total number of enqueue errors")

	m.workerCount = m.gauge("worker_count", "Configured number of workers")
	m.workerActiveCount = m.gauge("worker_active_count", "Number of workers currently running")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds", "Worker per-row latency in milliseconds", m.histogramBuckets)
	m.workerErrorRate = m.counter("worker_errors_total", "Total number of worker errors")

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Total number of errors by component", "component", "error_type")
}

// RecordRowProcessed increments the rows processed counter.
func RecordRowProcessed() { globalManager.rowsProcessed.Inc() }

// RecordRowDuplicate increments the duplicate rows counter.
func RecordRowDuplicate() { globalManager.rowsDuplicate.Inc() }

// RecordRowInvalid increments the invalid rows counter.
func RecordRowInvalid() { globalManager.rowsInvalid.Inc() }

// RecordRowSkipped increments the skipped rows counter.
func RecordRowSkipped() { globalManager.rowsSkipped.Inc() }

// RecordRowFailed increments the failed rows counter.
func RecordRowFailed() { globalManager.rowsFailed.Inc() }

// RecordVerdict counts an eligibility verdict.
func RecordVerdict(eligible bool) {
	outcome := "ineligible"
	if eligible {
		outcome = "eligible"
	}
	globalManager.verdicts.WithLabelValues(outcome).Inc()
}

// RecordRequirement counts one parsed requirement of the given kind.
func RecordRequirement(kind string) {
	globalManager.requirements.WithLabelValues(kind).Inc()
}

// RecordConfidence observes a case's mean qualification confidence.
func RecordConfidence(score float64) { globalManager.confidence.Observe(score) }

// RecordBuildLatency records record build latency in milliseconds.
func RecordBuildLatency(latencyMs float64) { globalManager.buildLatency.Observe(latencyMs) }

// RecordBatch publishes the duration and completion time of a batch run.
func RecordBatch(durationSeconds float64, finishedUnix int64) {
	globalManager.batchDuration.Set(durationSeconds)
	globalManager.batchLastUnix.Set(float64(finishedUnix))
}

// UpdateRepositoryShardCount sets the total number of repository shards.
func UpdateRepositoryShardCount(count int) {
	globalManager.repositoryShardCount.Set(float64(count))
}

// UpdateRepositoryRecordsTotal sets the total number of records across all shards.
func UpdateRepositoryRecordsTotal(count int) {
	globalManager.repositoryRecordsTotal.Set(float64(count))
}

// UpdateRepositoryRecordsPerShard sets the number of records for a specific shard.
func UpdateRepositoryRecordsPerShard(shardID string, count int) {
	globalManager.repositoryRecordsPerShard.WithLabelValues(shardID).Set(float64(count))
}

// RecordRepositorySaveLatency records repository save latency.
func RecordRepositorySaveLatency(latencyMs float64) {
	globalManager.repositorySaveLatency.Observe(latencyMs)
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) { globalManager.queueUtilization.Set(utilization) }

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() { globalManager.queueEnqueueRate.Inc() }

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() { globalManager.queueDequeueRate.Inc() }

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() { globalManager.queueEnqueueErrors.Inc() }

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) { globalManager.workerCount.Set(float64(count)) }

// UpdateWorkerActiveCount sets the number of running workers.
func UpdateWorkerActiveCount(count int) { globalManager.workerActiveCount.Set(float64(count)) }

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() { globalManager.workerErrorRate.Inc() }

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile dumps the registry to path in the node-exporter textfile format.
func WriteTextfile(path string) error {
	if path == "" {
		return ErrNoPath
	}
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}
