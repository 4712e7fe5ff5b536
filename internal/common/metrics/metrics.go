package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "application_submissions_received_total",
			Help: "Total number of application submissions received",
		},
	)

	SubmissionsSucceeded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "application_submissions_succeeded_total",
			Help: "Total number of application submissions delivered by email",
		},
	)

	SubmissionsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "application_submissions_failed_total",
			Help: "Total number of failed application submissions",
		},
		[]string{"error_code"},
	)

	SubmissionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "application_submission_duration_seconds",
			Help: "Duration of submission pipeline processing in seconds",
		},
	)

	AttachmentBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "application_attachment_bytes",
			Help:    "Size distribution of submitted attachments in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
		},
	)
)
