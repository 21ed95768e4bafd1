package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"
	"trip-planner-service/internal/platform/logging"
	"trip-planner-service/internal/platform/metrics"
	"trip-planner-service/internal/platform/obs"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// statusWriter captures the final HTTP status code and number of bytes written.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Record implicit 200 responses when handlers write without calling WriteHeader.
func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// requestIDMiddleware honours an incoming X-Request-ID or generates one, echoes
// it on the response, and attaches a logger carrying it to the request context.
func requestIDMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, id)

			ctx := obs.WithRequestID(r.Context(), id)
			ctx = logging.WithLogger(ctx, base.With(slog.String("req_id", id)))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// loggingMiddleware logs each request and records it in the HTTP metrics,
// labelled by route pattern to keep path cardinality bounded.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w}

		next.ServeHTTP(sw, r)

		if sw.status == 0 {
			sw.status = http.StatusOK
		}
		dur := time.Since(start)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := strconv.Itoa(sw.status)
		metrics.HTTPRequests.WithLabelValues(r.Method, route, status).Inc()
		metrics.HTTPDuration.WithLabelValues(r.Method, route, status).Observe(dur.Seconds())

		logging.LogHTTPRequest(logging.FromContext(r.Context()), r.Method, r.URL.RequestURI(), sw.status,
			float64(dur.Microseconds())/1000,
			slog.String("route", route),
			slog.Int("bytes", sw.bytes))
	})
}
