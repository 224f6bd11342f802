package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// Auth
	OTPSentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "otp_sent_total",
			Help: "Total OTP codes dispatched",
		},
	)
	OTPVerifyFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "otp_verify_failures_total",
			Help: "Total failed OTP verifications",
		},
	)

	// Payments
	PaymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Settled payment transactions",
		},
		[]string{"status"}, // completed|failed
	)
	StaleTransactionsSwept = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stale_transactions_swept_total",
			Help: "Pending transactions expired by the sweeper",
		},
	)

	// Certificates
	CertificatesIssuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "certificates_issued_total",
			Help: "Total certificates issued",
		},
	)
)

// Handler serves the /metrics endpoint.
var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(OTPSentTotal)
	prometheus.MustRegister(OTPVerifyFailuresTotal)
	prometheus.MustRegister(PaymentsTotal)
	prometheus.MustRegister(StaleTransactionsSwept)
	prometheus.MustRegister(CertificatesIssuedTotal)
}
