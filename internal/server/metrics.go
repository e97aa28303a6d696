package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors. Each instance has its own
// registry so several servers can coexist in one process.
type Metrics struct {
	registry            *prometheus.Registry
	requestsTotal       *prometheus.CounterVec
	activeRequests      prometheus.Gauge
	calculationDuration *prometheus.HistogramVec
	handler             http.Handler
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "factcalc_requests_total",
			Help: "HTTP requests by path and status code.",
		}, []string{"path", "code"}),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "factcalc_active_requests",
			Help: "Requests currently being served.",
		}),
		calculationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "factcalc_calculation_duration_seconds",
			Help:    "Wall time of factorial calculations by strategy.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 12),
		}, []string{"algorithm"}),
	}
	reg.MustRegister(
		m.requestsTotal,
		m.activeRequests,
		m.calculationDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return m
}

// IncrementActiveRequests marks a request as started.
func (m *Metrics) IncrementActiveRequests() { m.activeRequests.Inc() }

// DecrementActiveRequests marks a request as finished.
func (m *Metrics) DecrementActiveRequests() { m.activeRequests.Dec() }

// RecordRequest counts a served request.
func (m *Metrics) RecordRequest(path string, code int) {
	m.requestsTotal.WithLabelValues(path, strconv.Itoa(code)).Inc()
}

// ObserveCalculation records the duration of one calculation.
func (m *Metrics) ObserveCalculation(algorithm string, d time.Duration) {
	m.calculationDuration.WithLabelValues(algorithm).Observe(d.Seconds())
}

// WritePrometheus writes the exposition format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.code = code
	s.ResponseWriter.WriteHeader(code)
}
