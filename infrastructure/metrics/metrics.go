package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like.
// All methods are safe on a nil receiver.
type Metrics struct {
	registry       *prometheus.Registry
	sourceAttempts *prometheus.CounterVec
	summaries      *prometheus.CounterVec
	webhookEvents  *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sourceAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "video_digest",
			Name:      "transcript_source_attempts_total",
			Help:      "Transcript source attempts by source and outcome.",
		}, []string{"source", "outcome"}),
		summaries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "video_digest",
			Name:      "summaries_total",
			Help:      "Summaries served, split by cache hit.",
		}, []string{"cached"}),
		webhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "video_digest",
			Name:      "payment_webhook_events_total",
			Help:      "Payment webhook events by type and outcome.",
		}, []string{"type", "outcome"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "video_digest",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 180},
		}, []string{"method", "route", "status"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.sourceAttempts,
		m.summaries,
		m.webhookEvents,
		m.httpDuration,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// SourceAttempt records one transcript source call; outcome is "success" or a failure reason.
func (m *Metrics) SourceAttempt(source, outcome string) {
	if m == nil {
		return
	}
	m.sourceAttempts.WithLabelValues(source, outcome).Inc()
}

func (m *Metrics) Summary(cached bool) {
	if m == nil {
		return
	}
	m.summaries.WithLabelValues(strconv.FormatBool(cached)).Inc()
}

func (m *Metrics) WebhookEvent(eventType, outcome string) {
	if m == nil {
		return
	}
	m.webhookEvents.WithLabelValues(eventType, outcome).Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
