package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService owns a private Prometheus registry for HTTP and scheduling metrics.
type MetricsService struct {
	registry             *prometheus.Registry
	handler              http.Handler
	requestDuration      *prometheus.HistogramVec
	requestTotal         *prometheus.CounterVec
	appointmentConflicts prometheus.Counter
	appointmentsBooked   *prometheus.CounterVec
	suggestionDuration   prometheus.Histogram
}

func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	appointmentConflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "appointment_conflicts_total",
		Help: "Booking or reschedule attempts rejected because the dentist was busy",
	})

	appointmentsBooked := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "appointments_saved_total",
		Help: "Appointments written, by operation",
	}, []string{"operation"})

	suggestionDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "slot_suggestion_duration_seconds",
		Help:    "Time spent building alternative slot suggestions",
		Buckets: prometheus.DefBuckets,
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, appointmentConflicts, appointmentsBooked, suggestionDuration, goroutines)

	return &MetricsService{
		registry:             registry,
		handler:              promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:      requestDuration,
		requestTotal:         requestTotal,
		appointmentConflicts: appointmentConflicts,
		appointmentsBooked:   appointmentsBooked,
		suggestionDuration:   suggestionDuration,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

func (m *MetricsService) RecordConflict() {
	if m == nil {
		return
	}
	m.appointmentConflicts.Inc()
}

// RecordAppointmentSaved counts successful writes; operation is "create" or "reschedule".
func (m *MetricsService) RecordAppointmentSaved(operation string) {
	if m == nil {
		return
	}
	m.appointmentsBooked.WithLabelValues(operation).Inc()
}

func (m *MetricsService) ObserveSuggestions(duration time.Duration) {
	if m == nil {
		return
	}
	m.suggestionDuration.Observe(duration.Seconds())
}
