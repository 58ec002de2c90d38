// Package metrics provides Prometheus instrumentation for the studio API:
// upload and job counters, job latency and HTTP request counts.
package metrics

import (
	"net/http"
	"time"

	"github.com/killallgit/studio-api/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	UploadsTotal     prometheus.Counter
	UploadBytesTotal prometheus.Counter
	ActiveSessions   prometheus.Gauge
	JobsTotal        *prometheus.CounterVec
	JobDuration      *prometheus.HistogramVec
	HTTPRequests     *prometheus.CounterVec
}

// New creates and registers the studio collectors, plus the Go runtime and
// process collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		UploadsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studio_uploads_total",
			Help: "Total number of accepted uploads",
		}),
		UploadBytesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studio_upload_bytes_total",
			Help: "Total bytes written by uploads",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "studio_active_sessions",
			Help: "Sessions created by this process",
		}),
		JobsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studio_jobs_total",
			Help: "Finished processing jobs",
		}, []string{"type", "status"}),
		JobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "studio_job_duration_seconds",
			Help:    "Processing time of jobs that ran",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"type"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studio_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		m.UploadsTotal,
		m.UploadBytesTotal,
		m.ActiveSessions,
		m.JobsTotal,
		m.JobDuration,
		m.HTTPRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RegisterQueueDepth exposes the number of jobs waiting for a worker
func (m *Metrics) RegisterQueueDepth(depth func() int) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "studio_job_queue_depth",
		Help: "Jobs waiting for a worker",
	}, func() float64 { return float64(depth()) }))
}

// UploadAccepted records a stored upload of size bytes
func (m *Metrics) UploadAccepted(size int64) {
	m.UploadsTotal.Inc()
	m.UploadBytesTotal.Add(float64(size))
	m.ActiveSessions.Inc()
}

// JobFinished records a job reaching a terminal state
func (m *Metrics) JobFinished(jobType models.JobType, status models.JobStatus, elapsed time.Duration) {
	m.JobsTotal.WithLabelValues(string(jobType), string(status)).Inc()
	// Cancelled jobs never ran
	if status != models.JobStatusCancelled {
		m.JobDuration.WithLabelValues(string(jobType)).Observe(elapsed.Seconds())
	}
}

// Handler returns the Prometheus metrics HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
