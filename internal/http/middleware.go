package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"time"

	applog "homespend/internal/log"
	"homespend/internal/metrics"
)

// withObservability stamps every request with an id, logs start and
// completion, and sets the security headers. The request-scoped logger
// lands in the context so handlers pick it up with applog.FromContext.
func (s *Server) withObservability(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := generateRequestID()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		logger := s.logger.With(applog.FieldRequestID, requestID)
		ctx := applog.IntoContext(r.Context(), logger)

		fields := applog.NewFields().
			WithRequestID(requestID).
			WithClientIP(clientIP).
			WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("User-Agent"))
		s.logger.InfoContext(ctx, "Request started", fields.ToSlice()...)

		w.Header().Set("X-Request-ID", requestID)
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r.WithContext(ctx))

		s.logger.InfoContext(ctx, "Request completed",
			fields.WithHTTPResponse(rw.statusCode, time.Since(start).Milliseconds(), rw.statusCode < 400).
				ToSlice()...)
	})
}

// route instruments a handler with the Prometheus counters under its route
// pattern, keeping label cardinality bounded.
func (s *Server) route(pattern string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw, ok := w.(*responseWriter)
		if !ok {
			rw = &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			w = rw
		}

		next(w, r)

		metrics.RequestsTotal.
			WithLabelValues(r.Method, pattern, strconv.Itoa(rw.statusCode)).
			Inc()
		metrics.RequestDuration.
			WithLabelValues(r.Method, pattern).
			Observe(time.Since(start).Seconds())
	}
}

// responseWriter captures the status code for logging and metrics.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
