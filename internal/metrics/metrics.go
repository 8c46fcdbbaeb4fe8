// Package metrics exposes Prometheus counters for the HTTP API, ingestion,
// feed downloads and position queries.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/starford/satcat/internal/models"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "satcat_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "satcat_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	ingestRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "satcat_ingest_records_total",
			Help: "Feed records handled by ingestion, by outcome.",
		},
		[]string{"kind", "result"},
	)

	ingestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "satcat_ingest_duration_seconds",
			Help:    "Ingestion batch duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	fetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "satcat_fetch_total",
			Help: "Feed downloads by source and status.",
		},
		[]string{"source", "status"},
	)

	positionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "satcat_position_computations_total",
			Help: "Position computations by result.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
	prometheus.MustRegister(ingestRecordsTotal)
	prometheus.MustRegister(ingestDurationSeconds)
	prometheus.MustRegister(fetchTotal)
	prometheus.MustRegister(positionsTotal)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
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

// Flush lets streaming handlers behind the middleware keep working.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Middleware records request count and duration for each request. The path
// label is the chi route pattern, or "other" when no route matched.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		path := "other"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				path = p
			}
		}
		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(path, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(path, r.Method).Observe(duration)
	})
}

// ObserveIngest records the outcome counts of a committed batch.
func ObserveIngest(rep models.IngestReport) {
	add := func(result string, n int) {
		if n > 0 {
			ingestRecordsTotal.WithLabelValues(rep.Kind, result).Add(float64(n))
		}
	}
	add("upserted", rep.Upserted)
	add("inserted", rep.Inserted)
	add("duplicate", rep.Duplicates)
	add("unknown_satellite", rep.UnknownSatellite)
	add("checksum_mismatch", rep.ChecksumMismatch)
	add("skipped", rep.Skipped)
	ingestDurationSeconds.WithLabelValues(rep.Kind).Observe(rep.Duration.Seconds())
}

// ObserveFetch records one feed download.
func ObserveFetch(source string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	fetchTotal.WithLabelValues(source, status).Inc()
}

// ObservePosition records one position computation.
func ObservePosition(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	positionsTotal.WithLabelValues(result).Inc()
}
