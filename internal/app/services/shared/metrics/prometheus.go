package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medreport_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "medreport_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "route"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "medreport_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Workflow metrics
	workflowTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medreport_workflow_transitions_total",
			Help: "Total number of session workflow transitions",
		},
		[]string{"transition", "outcome"},
	)

	workflowTransitionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "medreport_workflow_transition_duration_seconds",
			Help:    "Session workflow transition duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"transition"},
	)

	labResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medreport_lab_results_total",
			Help: "Total number of evaluated lab results by severity",
		},
		[]string{"severity"},
	)

	reportDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medreport_report_decisions_total",
			Help: "Total number of reviewer decisions",
		},
		[]string{"decision"},
	)

	urgentReviewsPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "medreport_urgent_reviews_pending",
			Help: "Number of urgent drafts waiting for a reviewer decision",
		},
	)

	// Collaborator metrics
	collaboratorCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "medreport_collaborator_call_duration_seconds",
			Help:    "Duration of calls to the feature extraction and PDF rendering collaborators",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"collaborator", "outcome"},
	)
)

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request counts and latency per chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		route := routePattern(r)
		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// routePattern keeps session ids out of the label set.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

func Outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}

func RecordTransition(transition string, err error, duration time.Duration) {
	workflowTransitionsTotal.WithLabelValues(transition, Outcome(err)).Inc()
	workflowTransitionDuration.WithLabelValues(transition).Observe(duration.Seconds())
}

func RecordLabResult(severity string) {
	labResultsTotal.WithLabelValues(severity).Inc()
}

func RecordDecision(approved bool) {
	decision := "rejected"
	if approved {
		decision = "approved"
	}
	reportDecisionsTotal.WithLabelValues(decision).Inc()
}

func SetUrgentReviewsPending(count int) {
	urgentReviewsPending.Set(float64(count))
}

func RecordCollaboratorCall(collaborator string, err error, duration time.Duration) {
	collaboratorCallDuration.WithLabelValues(collaborator, Outcome(err)).Observe(duration.Seconds())
}
