package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relaychat_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relaychat_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.005, .01, .05, .1, .5, 1, 5, 15, 60},
		},
		[]string{"method", "path"},
	)

	// Relay metrics
	RelaysTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relaychat_relays_total",
			Help: "Total relays by terminal status",
		},
		[]string{"provider", "status"},
	)

	RelayChunks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relaychat_relay_chunks_total",
			Help: "Total content chunks forwarded to clients",
		},
		[]string{"provider"},
	)

	RelayDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relaychat_relay_duration_seconds",
			Help:    "Time from relay start to provider completion",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"provider"},
	)

	RelaysInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "relaychat_relays_in_flight",
			Help: "Relays currently streaming",
		},
	)
)
