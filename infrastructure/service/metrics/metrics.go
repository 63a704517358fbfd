package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Service token check outcomes
const (
	OutcomeAuthenticated = "authenticated"
	OutcomeMissing       = "missing"
	OutcomeInvalid       = "invalid"
)

// Metrics holds the Prometheus collectors for the student services
type Metrics struct {
	ServiceTokenChecks *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	StudentsCreated    prometheus.Counter
	ReportsGenerated   *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers all collectors on reg. Pass prometheus.NewRegistry() in tests
// so repeated construction does not collide on the default registry.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ServiceTokenChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "students_service_token_checks_total",
			Help: "Service token checks, labeled by outcome",
		}, []string{"outcome"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "students_http_request_duration_seconds",
			Help:    "Latency of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		StudentsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "students_created_total",
			Help: "Total number of students created",
		}),
		ReportsGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "students_reports_generated_total",
			Help: "PDF report requests, labeled by result",
		}, []string{"result"}),
		gatherer: reg,
	}
}

// NewDefault registers on a fresh registry that also carries the Go runtime
// and process collectors.
func NewDefault() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return New(reg)
}

func (m *Metrics) RecordServiceTokenCheck(outcome string) {
	m.ServiceTokenChecks.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRequest(route, method string, status int, duration time.Duration) {
	m.RequestDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(duration.Seconds())
}

func (m *Metrics) IncStudentsCreated() {
	m.StudentsCreated.Inc()
}

func (m *Metrics) RecordReport(result string) {
	m.ReportsGenerated.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
