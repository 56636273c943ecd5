package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Business metrics
	patientsRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "patients_registered_total",
			Help: "Total number of patients registered",
		},
	)

	visitsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "visits_recorded_total",
			Help: "Total number of patient visits recorded",
		},
	)

	billsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bills_created_total",
			Help: "Total number of bills created",
		},
		[]string{"status"},
	)

	paymentsSettled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "payments_settled_total",
			Help: "Total number of payment settlements recorded",
		},
	)

	expensesRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "expenses_recorded_total",
			Help: "Total number of expenses recorded",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware creates HTTP metrics middleware
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		// Wrap response writer to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
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

// normalizePath caps path cardinality for metrics labels
func normalizePath(path string) string {
	if len(path) > 100 {
		return "/api/..."
	}
	return path
}

// --- Business metric helpers ---

// RecordPatientRegistered records a patient registration
func RecordPatientRegistered() {
	patientsRegistered.Inc()
}

// RecordVisitRecorded records a patient visit
func RecordVisitRecorded() {
	visitsRecorded.Inc()
}

// RecordBillCreated records a bill creation with its initial status
func RecordBillCreated(status string) {
	billsCreated.WithLabelValues(status).Inc()
}

// RecordPaymentSettled records a payment settlement
func RecordPaymentSettled() {
	paymentsSettled.Inc()
}

// RecordExpenseRecorded records an expense entry
func RecordExpenseRecorded() {
	expensesRecorded.Inc()
}
