package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds every metric the service exports. A nil *Collector is
// valid and records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlightGauge   prometheus.Gauge

	HealthMetricsRecorded *prometheus.CounterVec
	AppointmentsTotal     *prometheus.CounterVec
	MessagesSent          prometheus.Counter
	MessagesRead          prometheus.Counter
	AttachmentsUploaded   *prometheus.CounterVec

	AuditEntriesTotal prometheus.Counter
	AuditFailures     prometheus.Counter
}

// NewCollector registers the collectors on reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration panics.
func NewCollector(serviceName string, reg *prometheus.Registry) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		gatherer: reg,

		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route, and status code.",
		}, []string{"method", "path", "status"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "path", "status"}),

		InFlightGauge: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		HealthMetricsRecorded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "monitoring",
			Name:      "health_metrics_recorded_total",
			Help:      "Health metric readings recorded by type and abnormal flag.",
		}, []string{"type", "abnormal"}),

		AppointmentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "monitoring",
			Name:      "appointments_total",
			Help:      "Appointments created or moved into a status, by status.",
		}, []string{"status"}),

		MessagesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "messaging",
			Name:      "messages_sent_total",
			Help:      "Total messages sent.",
		}),

		MessagesRead: factory.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "messaging",
			Name:      "messages_read_total",
			Help:      "Total messages flipped from unread to read.",
		}),

		AttachmentsUploaded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "messaging",
			Name:      "attachments_uploaded_total",
			Help:      "Attachments stored, by detected content type.",
		}, []string{"content_type"}),

		AuditEntriesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "audit",
			Name:      "entries_total",
			Help:      "Total audit log entries written.",
		}),

		AuditFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "audit",
			Name:      "failures_total",
			Help:      "Audit entries that could not be written. Alert if non-zero.",
		}),
	}
}

func (c *Collector) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	code := strconv.Itoa(status)
	c.RequestsTotal.WithLabelValues(method, path, code).Inc()
	c.RequestDuration.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
}

func (c *Collector) HealthMetricRecorded(metricType string, abnormal bool) {
	if c == nil {
		return
	}
	c.HealthMetricsRecorded.WithLabelValues(metricType, strconv.FormatBool(abnormal)).Inc()
}

func (c *Collector) AppointmentStatus(status string) {
	if c == nil {
		return
	}
	c.AppointmentsTotal.WithLabelValues(status).Inc()
}

func (c *Collector) MessageSent() {
	if c == nil {
		return
	}
	c.MessagesSent.Inc()
}

func (c *Collector) MessagesMarkedRead(count int64) {
	if c == nil || count <= 0 {
		return
	}
	c.MessagesRead.Add(float64(count))
}

func (c *Collector) AttachmentUploaded(contentType string) {
	if c == nil {
		return
	}
	c.AttachmentsUploaded.WithLabelValues(contentType).Inc()
}

func (c *Collector) AuditWritten(err error) {
	if c == nil {
		return
	}
	if err != nil {
		c.AuditFailures.Inc()
		return
	}
	c.AuditEntriesTotal.Inc()
}

// Handler exposes the registry this collector was built on.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
