package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "techblog_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "techblog_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ContactSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "techblog_contact_submissions_total",
			Help: "Contact form submissions by outcome (stored, notified, notify_failed, invalid)",
		},
		[]string{"status"},
	)

	Uploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "techblog_uploads_total",
			Help: "Image uploads by storage backend and outcome",
		},
		[]string{"backend", "status"},
	)

	PageOutOfRange = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "techblog_page_out_of_range_total",
			Help: "Home page requests whose numeric page lies outside [1, last_page]",
		},
	)

	MailDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "techblog_mail_deliveries_total",
			Help: "Contact notification mails by outcome",
		},
		[]string{"status"},
	)
)
