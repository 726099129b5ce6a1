package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Computation kinds.
const (
	KindAngles = "angles"
	KindScene  = "scene"
)

// Collector owns the application metrics and the registry they are exposed from.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	Requests         *prometheus.CounterVec
	RequestDurations *prometheus.HistogramVec
	Computations     *prometheus.CounterVec
	ComputeDurations *prometheus.HistogramVec
	StreamClients    prometheus.Gauge
}

// New registers the application metrics, plus the Go runtime and process collectors,
// on reg. A nil reg gets a fresh registry.
func New(reg *prometheus.Registry) (*Collector, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	c := &Collector{
		registry: reg,
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solargeo_http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"route", "method", "code"},
		),
		RequestDurations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "solargeo_http_duration_seconds",
				Help:    "HTTP request duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		Computations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solargeo_computations_total",
				Help: "Number of solar angle and scene computations.",
			},
			[]string{"kind"},
		),
		ComputeDurations: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "solargeo_compute_duration_seconds",
				Help:    "Time spent computing angles or building a scene.",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"kind"},
		),
		StreamClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "solargeo_status_stream_clients",
			Help: "Connected status stream (SSE) clients.",
		}),
	}

	for _, col := range []prometheus.Collector{
		c.Requests,
		c.RequestDurations,
		c.Computations,
		c.ComputeDurations,
		c.StreamClients,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Handler returns the Prometheus metrics HTTP handler.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveComputation records one computation of the given kind.
func (c *Collector) ObserveComputation(kind string, d time.Duration) {
	if c == nil {
		return
	}
	c.Computations.WithLabelValues(kind).Inc()
	c.ComputeDurations.WithLabelValues(kind).Observe(d.Seconds())
}

// StreamOpened and StreamClosed track SSE subscribers.
func (c *Collector) StreamOpened() {
	if c != nil {
		c.StreamClients.Inc()
	}
}

func (c *Collector) StreamClosed() {
	if c != nil {
		c.StreamClients.Dec()
	}
}

// NormalizeRoute maps a request path onto a fixed set of route labels.
func NormalizeRoute(path string) string {
	switch path {
	case "/", "/config", "/compute", "/scene", "/status/stream", "/metrics":
		return path
	}
	if strings.HasPrefix(path, "/static/") {
		return "/static/*"
	}
	return "other"
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming handlers working behind the middleware.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Middleware records request count and duration for each request.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	if c == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)
		route := NormalizeRoute(r.URL.Path)

		c.Requests.WithLabelValues(route, r.Method, code).Inc()
		c.RequestDurations.WithLabelValues(route, r.Method).Observe(duration)
	})
}
