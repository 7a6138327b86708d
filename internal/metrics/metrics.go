// AngelaMos | 2026
// metrics.go

// Package metrics holds the service's Prometheus collectors.
//
// Naming follows Prometheus conventions: a trailrace_ prefix, _total for
// counters and _seconds for duration histograms.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeAdmitted          = "admitted"
	OutcomeNotFound          = "not_found"
	OutcomeNotOpen           = "not_open"
	OutcomeDeadlinePassed    = "deadline_passed"
	OutcomeAlreadyRegistered = "already_registered"
	OutcomeRaceFull          = "race_full"
	OutcomeError             = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	AdmissionDecisions  *prometheus.CounterVec
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	EventsPublished     *prometheus.CounterVec
}

// New builds the collectors on a private registry, along with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		AdmissionDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trailrace_admission_decisions_total",
				Help: "Self-service registration decisions by outcome.",
			},
			[]string{"outcome"},
		),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trailrace_http_requests_total",
				Help: "HTTP requests by method, route pattern and status code.",
			},
			[]string{"method", "route", "status"},
		),

		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trailrace_http_request_duration_seconds",
				Help:    "HTTP request latency by method and route pattern.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		EventsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trailrace_events_published_total",
				Help: "Domain events handed to the broker by type and result.",
			},
			[]string{"type", "result"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.AdmissionDecisions,
		m.HTTPRequests,
		m.HTTPRequestDuration,
		m.EventsPublished,
	)

	return m
}

func (m *Metrics) RecordAdmission(outcome string) {
	m.AdmissionDecisions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordHTTPRequest(
	method, route string,
	status int,
	elapsed time.Duration,
) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordEventPublished(eventType string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.EventsPublished.WithLabelValues(eventType, result).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
