package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instrumentation of the API server.
type Metrics struct {
	JobsSubmitted  *prometheus.CounterVec
	RequestsTotal  *prometheus.CounterVec
	RequestSeconds *prometheus.HistogramVec
}

// NewMetrics registers the server metrics with the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		JobsSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "qlued",
			Name:      "jobs_submitted_total",
			Help:      "Number of jobs accepted per backend.",
		}, []string{"backend"}),
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "qlued",
			Name:      "http_requests_total",
			Help:      "Number of HTTP requests by handler and status code.",
		}, []string{"handler", "code"}),
		RequestSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "qlued",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by handler.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"handler"}),
	}
}

// Instrument records the count and latency of every request, labeled by
// the matched route template.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(recorder, r)

		handler := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				handler = tmpl
			}
		}
		m.RequestsTotal.WithLabelValues(handler, strconv.Itoa(recorder.code)).Inc()
		m.RequestSeconds.WithLabelValues(handler).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}
