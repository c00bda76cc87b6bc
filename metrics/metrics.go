package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels of ConversionsProcessed.
const (
	OutcomeSkipped   = "skipped"
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

var (
	// ConversionsProcessed counts finished chains by outcome and by the reason for it,
	// e.g. "consent", "sandbox", "replay", "unbuildable", "escalated".
	ConversionsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gads_conversions_processed_total",
		Help: "Total number of conversion events processed, by outcome",
	}, []string{"outcome", "reason"})

	// UploadRequests counts calls to the Google Ads upload endpoints.
	// status is the HTTP status code, or "error" for transport failures.
	UploadRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gads_upload_requests_total",
		Help: "Total number of Google Ads upload requests, by operation and status",
	}, []string{"operation", "status"})

	UploadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gads_upload_duration_seconds",
		Help:    "Duration of Google Ads upload requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// Escalations counts adjustments answered with CONVERSION_NOT_FOUND.
	Escalations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gads_escalations_total",
		Help: "Total number of adjustments escalated to offline click conversions",
	})

	// LogRowsDropped counts storage log rows lost to a full buffer or failed insert.
	LogRowsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gads_log_rows_dropped_total",
		Help: "Total number of upload log rows that could not be stored",
	}, []string{"reason"})

	LogBufferSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gads_log_buffer_size",
		Help: "Current number of log rows waiting in the storage buffer",
	})

	// QueueMessages counts RabbitMQ deliveries by how they were settled (ack, nack, requeue).
	QueueMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gads_queue_messages_total",
		Help: "Total number of queue deliveries, by settlement",
	}, []string{"settlement"})
)
