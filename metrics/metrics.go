package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters for the splitter service.
type Metrics struct {
	registry               *prometheus.Registry
	requestsTotal          prometheus.Counter
	splitsTotal            prometheus.Counter
	segmentsPublishedTotal prometheus.Counter
	errorsTotal            prometheus.Counter
}

// New creates and registers Prometheus metrics on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "audiosplitter_requests_total",
		Help: "Total number of HTTP requests received",
	})
	splitsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "audiosplitter_splits_total",
		Help: "Total number of successfully completed split requests",
	})
	segmentsPublishedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "audiosplitter_segments_published_total",
		Help: "Total number of segments uploaded to the object store",
	})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "audiosplitter_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})

	registry.MustRegister(
		requestsTotal,
		splitsTotal,
		segmentsPublishedTotal,
		errorsTotal,
	)

	return &Metrics{
		registry:               registry,
		requestsTotal:          requestsTotal,
		splitsTotal:            splitsTotal,
		segmentsPublishedTotal: segmentsPublishedTotal,
		errorsTotal:            errorsTotal,
	}
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

// IncSplits increments the completed splits counter.
func (m *Metrics) IncSplits() {
	m.splitsTotal.Inc()
}

// AddSegmentsPublished adds n to the published segments counter.
func (m *Metrics) AddSegmentsPublished(n int) {
	m.segmentsPublishedTotal.Add(float64(n))
}

// IncErrors increments the errors counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// Handler returns an http.Handler serving the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// responseWriter captures the status code for metrics.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// RequestMiddleware records request count and error count (status >= 400).
func RequestMiddleware(m *Metrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrap := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(wrap, r)
			m.IncRequests()
			if wrap.status >= 400 {
				m.IncErrors()
			}
		})
	}
}
