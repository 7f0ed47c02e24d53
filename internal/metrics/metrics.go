// Package metrics holds the Prometheus collectors for the wizard and the
// creation service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry is the registry served at /metrics.
var Registry = prometheus.NewRegistry()

var (
	// Wizard metrics
	stepTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rentwise",
			Subsystem: "wizard",
			Name:      "step_transitions_total",
			Help:      "Total number of wizard step transitions by direction and target step",
		},
		[]string{"direction", "step"},
	)

	validationFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rentwise",
			Subsystem: "wizard",
			Name:      "validation_failures_total",
			Help:      "Total number of failed validations by step",
		},
		[]string{"step"},
	)

	uploadRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rentwise",
			Subsystem: "wizard",
			Name:      "upload_rejections_total",
			Help:      "Total number of rejected photo uploads by kind",
		},
		[]string{"kind"},
	)

	submissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rentwise",
			Subsystem: "wizard",
			Name:      "submissions_total",
			Help:      "Total number of submissions by result",
		},
		[]string{"result"},
	)

	submissionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "rentwise",
			Subsystem: "wizard",
			Name:      "submission_duration_seconds",
			Help:      "Duration of submissions to the creation boundary in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
		},
	)

	activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "rentwise",
			Subsystem: "wizard",
			Name:      "active_sessions",
			Help:      "Number of open wizard sessions held by the server",
		},
	)

	// Creation service metrics
	photoUploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rentwise",
			Subsystem: "creator",
			Name:      "photo_uploads_total",
			Help:      "Total number of photo store writes by backend and result",
		},
		[]string{"backend", "result"},
	)

	eventsPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rentwise",
			Subsystem: "creator",
			Name:      "events_published_total",
			Help:      "Total number of property events published by result",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		stepTransitionsTotal,
		validationFailuresTotal,
		uploadRejectionsTotal,
		submissionsTotal,
		submissionDuration,
		activeSessions,
		photoUploadsTotal,
		eventsPublishedTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// RecordStep records a move to step in direction ("next" or "previous").
func RecordStep(direction, step string) {
	stepTransitionsTotal.WithLabelValues(direction, step).Inc()
}

// RecordValidationFailure records a failed validation on step.
func RecordValidationFailure(step string) {
	validationFailuresTotal.WithLabelValues(step).Inc()
}

// RecordUploadRejection records a rejected upload of the given kind.
func RecordUploadRejection(kind string) {
	uploadRejectionsTotal.WithLabelValues(kind).Inc()
}

// RecordSubmission records a submission result and its duration in seconds.
func RecordSubmission(result string, duration float64) {
	submissionsTotal.WithLabelValues(result).Inc()
	submissionDuration.Observe(duration)
}

// SessionOpened increments the active session gauge.
func SessionOpened() { activeSessions.Inc() }

// SessionClosed decrements the active session gauge.
func SessionClosed() { activeSessions.Dec() }

// RecordPhotoUpload records a photo store write.
func RecordPhotoUpload(backend, result string) {
	photoUploadsTotal.WithLabelValues(backend, result).Inc()
}

// RecordEventPublished records a property event publish attempt.
func RecordEventPublished(result string) {
	eventsPublishedTotal.WithLabelValues(result).Inc()
}
