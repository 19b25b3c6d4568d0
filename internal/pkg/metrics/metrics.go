package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/attendance-window-go/internal/pkg/attendancewindow"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns a private Prometheus registry. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	registry        *prometheus.Registry
	handler         http.Handler
	evaluations     *prometheus.CounterVec
	transitions     *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	evaluations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_window_evaluations_total",
		Help: "Attendance window evaluations by source and lock state",
	}, []string{"source", "locked"})

	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_window_transitions_total",
		Help: "Window transitions pushed to subscribers",
	}, []string{"event"})

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	registry.MustRegister(evaluations, transitions, requestDuration)

	return &Recorder{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		evaluations:     evaluations,
		transitions:     transitions,
		requestDuration: requestDuration,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *Recorder) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

func (m *Recorder) ObserveEvaluation(source string, eval attendancewindow.Evaluation) {
	if m == nil {
		return
	}
	m.evaluations.WithLabelValues(source, strconv.FormatBool(eval.IsLocked)).Inc()
}

func (m *Recorder) ObserveTransition(event string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(event).Inc()
}

// RegisterGaugeFunc adds a gauge sampled at scrape time.
func (m *Recorder) RegisterGaugeFunc(name, help string, fn func() float64) {
	if m == nil {
		return
	}
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: name,
		Help: help,
	}, fn))
}

// Middleware observes request durations labelled by chi route pattern, so
// path parameters do not explode label cardinality.
func (m *Recorder) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requestDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}
