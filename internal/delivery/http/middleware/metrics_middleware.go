package middleware

import (
	"net/http"
	"time"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/internal/service"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// MetricsMiddleware records request metrics labelled by route template and logs each request.
type MetricsMiddleware struct {
	metrics *service.MetricsService
	log     *logrus.Logger
}

func NewMetricsMiddleware(metrics *service.MetricsService, log *logrus.Logger) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: metrics, log: log}
}

func (m *MetricsMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		// Route templates keep the label set bounded
		path := "unmatched"
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}
		elapsed := time.Since(started)
		m.metrics.ObserveHTTPRequest(r.Method, path, rec.status, elapsed)

		m.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     path,
			"status":   rec.status,
			"duration": elapsed.String(),
		}).Debug("HTTP request")
	})
}
