package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Count of HTTP requests"},
		[]string{"path", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"},
	)
	HTTPInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "http_requests_in_flight", Help: "Requests currently being served"},
	)
	// AuthAttempts op: signup/login/verify；result: ok/invalid/conflict/error
	AuthAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "auth_attempts_total", Help: "Authentication attempts by outcome"},
		[]string{"op", "result"},
	)
	DeveloperWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "developer_writes_total", Help: "Developer record writes"},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPLatency, HTTPInFlight, AuthAttempts, DeveloperWrites)
}
