package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"hospital-booking/pkg/metrics"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const requestIDKey contextKey = "request_id"

// RequestID adds a unique request ID to each request context and echoes it
// in the X-Request-ID header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// Timeout bounds every request, including the storage calls it makes.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type AccessLogMiddleware struct {
	log     *logrus.Logger
	metrics *metrics.Collector
}

func NewAccessLogMiddleware(log *logrus.Logger, metrics *metrics.Collector) *AccessLogMiddleware {
	return &AccessLogMiddleware{
		log:     log,
		metrics: metrics,
	}
}

// Handle logs each request and records it in the HTTP metrics. It must be
// installed with Router.Use so the matched route template is known.
func (m *AccessLogMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.metrics.InFlightGauge.Inc()
		defer m.metrics.InFlightGauge.Dec()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		route := routeTemplate(r)
		m.metrics.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.statusCode)).Inc()
		m.metrics.RequestDuration.WithLabelValues(r.Method, route).Observe(duration.Seconds())

		fields := logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"route":       route,
			"status":      wrapped.statusCode,
			"duration_ms": duration.Milliseconds(),
			"request_id":  GetRequestID(r.Context()),
		}

		entry := m.log.WithFields(fields)
		if wrapped.statusCode >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Info("request handled")
	})
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if template, err := route.GetPathTemplate(); err == nil {
			return template
		}
	}
	return "unmatched"
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
