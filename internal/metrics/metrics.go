package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const Namespace = "tasker"

const (
	NameHTTPRequests        = "http_requests_total"
	NameHTTPErrors          = "http_errors_total"
	NameHTTPRequestDuration = "http_request_duration_seconds"
	NameRateLimited         = "http_rate_limited_total"
)

var HTTPRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameHTTPRequests,
		Help:      "Total HTTP requests by method, route and status",
		Namespace: Namespace,
	},
	[]string{"method", "route", "status"},
)

// HTTPErrors counts responses with a 5xx status.
var HTTPErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameHTTPErrors,
		Help:      "Total HTTP requests that failed with a server error",
		Namespace: Namespace,
	},
	[]string{"route"},
)

var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:      NameHTTPRequestDuration,
		Help:      "HTTP request latency",
		Namespace: Namespace,
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

var RateLimited = promauto.NewCounter(
	prometheus.CounterOpts{
		Name:      NameRateLimited,
		Help:      "Total requests rejected by the rate limiter",
		Namespace: Namespace,
	},
)
