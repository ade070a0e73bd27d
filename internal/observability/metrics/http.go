package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPServerMetrics owns the service registry: HTTP server metrics plus the
// extraction pipeline observations. It implements usecase.Monitor.
type HTTPServerMetrics struct {
	service  string
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	extractionsTotal      *prometheus.CounterVec
	extractionDuration    *prometheus.HistogramVec
	modelCallDuration     *prometheus.HistogramVec
	taxonomyFallbackTotal prometheus.Counter
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "oa",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "oa",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "oa",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	extractionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "oa",
			Subsystem: "pipeline",
			Name:      "extractions_total",
			Help:      "Total extraction pipeline runs by outcome.",
		},
		[]string{"service", "status"},
	)
	extractionDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "oa",
			Subsystem: "pipeline",
			Name:      "extraction_duration_seconds",
			Help:      "End-to-end extraction pipeline duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)
	modelCallDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "oa",
			Subsystem: "llm",
			Name:      "call_duration_seconds",
			Help:      "Generative model call duration in seconds.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 60, 120},
		},
		[]string{"service", "outcome"},
	)
	taxonomyFallbackTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "oa",
			Subsystem: "taxonomy",
			Name:      "fallback_total",
			Help:      "Total requests served with an empty taxonomy because the store was unavailable.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		extractionsTotal,
		extractionDuration,
		modelCallDuration,
		taxonomyFallbackTotal,
	)

	return &HTTPServerMetrics{
		service:               service,
		registry:              registry,
		requestTotal:          requestTotal,
		requestDuration:       requestDuration,
		requestInFlight:       requestInFlight,
		extractionsTotal:      extractionsTotal,
		extractionDuration:    extractionDuration,
		modelCallDuration:     modelCallDuration,
		taxonomyFallbackTotal: taxonomyFallbackTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			m.service,
			r.Method,
			r.URL.Path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(m.service, r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

// ExtractionCompleted implements usecase.Monitor.
func (m *HTTPServerMetrics) ExtractionCompleted(status string, elapsed time.Duration) {
	if status == "" {
		status = "unknown"
	}
	m.extractionsTotal.WithLabelValues(m.service, status).Inc()
	m.extractionDuration.WithLabelValues(m.service).Observe(elapsed.Seconds())
}

// TaxonomyFallback implements usecase.Monitor.
func (m *HTTPServerMetrics) TaxonomyFallback() {
	m.taxonomyFallbackTotal.Inc()
}

// ModelCall implements usecase.Monitor.
func (m *HTTPServerMetrics) ModelCall(elapsed time.Duration, failed bool) {
	outcome := "ok"
	if failed {
		outcome = "error"
	}
	m.modelCallDuration.WithLabelValues(m.service, outcome).Observe(elapsed.Seconds())
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytesWritten += n
	return n, err
}
