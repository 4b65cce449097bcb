package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
	httpErrorsTotal       *prometheus.CounterVec
	classificationsTotal  *prometheus.CounterVec
	uploadRejectionsTotal *prometheus.CounterVec
	paymentVerifications  *prometheus.CounterVec
	progressPercentage    *prometheus.HistogramVec
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "onboard",
			Name:      "http_requests_total",
			Help:      "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "onboard",
			Name:      "http_latency_seconds",
			Help:      "Latency distribution for API requests.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "onboard",
			Name:      "http_errors_total",
			Help:      "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		classificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "onboard",
			Name:      "document_classifications_total",
			Help:      "Document classification outcomes by mapped result.",
		}, []string{"outcome"})

		uploadRejectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "onboard",
			Name:      "upload_rejections_total",
			Help:      "Uploads rejected before classification.",
		}, []string{"reason"})

		paymentVerifications = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "onboard",
			Name:      "payment_verifications_total",
			Help:      "Payment verification outcomes.",
		}, []string{"result"})

		progressPercentage = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "onboard",
			Name:      "progress_percentage",
			Help:      "Distribution of recomputed onboarding progress values.",
			Buckets:   []float64{0, 25, 50, 75, 100},
		}, []string{"trigger"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			classificationsTotal,
			uploadRejectionsTotal,
			paymentVerifications,
			progressPercentage,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// Classifications exposes the counter for classification outcomes.
func Classifications() *prometheus.CounterVec {
	RegisterMetrics()
	return classificationsTotal
}

// UploadRejections exposes the counter for rejected uploads.
func UploadRejections() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadRejectionsTotal
}

// PaymentVerifications exposes the counter for verification outcomes.
func PaymentVerifications() *prometheus.CounterVec {
	RegisterMetrics()
	return paymentVerifications
}

// ProgressValues exposes the histogram of recomputed progress percentages.
func ProgressValues() *prometheus.HistogramVec {
	RegisterMetrics()
	return progressPercentage
}
