// Package metrics exposes Prometheus instrumentation for the gateway.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	UploadsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cliplearn_uploads_started_total",
		Help: "Video uploads submitted to the analysis backend.",
	})
	UploadsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cliplearn_uploads_completed_total",
		Help: "Uploads whose processing finished successfully.",
	})
	UploadsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cliplearn_uploads_failed_total",
		Help: "Uploads that ended in a validation, transport, or backend failure.",
	})
	UploadsTimedOut = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cliplearn_uploads_timed_out_total",
		Help: "Uploads abandoned after the poll attempt budget was exhausted.",
	})
	PollAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cliplearn_poll_attempts_total",
		Help: "Status poll requests issued against the analysis backend.",
	})
	QuestionsAsked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cliplearn_questions_asked_total",
		Help: "Chat questions forwarded to the analysis backend.",
	})
	CoursesGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cliplearn_courses_generated_total",
		Help: "Courses generated through the console.",
	})
	CoursesDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cliplearn_courses_deleted_total",
		Help: "Courses deleted through the console, including bulk cleanup.",
	})
	RequestsThrottled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cliplearn_requests_throttled_total",
		Help: "Requests rejected by the per-client rate limiter.",
	})
	ProcessingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cliplearn_processing_duration_seconds",
		Help:    "Wall time from upload acceptance to backend-reported completion.",
		Buckets: prometheus.ExponentialBuckets(5, 2, 8),
	})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
