package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NegotiationTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "carpool", Name: "negotiation_transitions_total", Help: "Negotiation state changes by resulting status"},
		[]string{"status"},
	)
	BookingTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "carpool", Name: "booking_transitions_total", Help: "Booking state changes by resulting status"},
		[]string{"status"},
	)
	TripTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "carpool", Name: "trip_transitions_total", Help: "Trip lifecycle changes by resulting status"},
		[]string{"status"},
	)
	OptimisticConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "carpool", Name: "optimistic_conflicts_total", Help: "Writes lost to a concurrent update"},
		[]string{"aggregate"},
	)
	CommissionCollected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "carpool", Name: "commission_collected_minor_units_total", Help: "Commission booked on confirmed bookings, in minor units",
	})
	NotificationsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "carpool", Name: "notifications_dropped_total", Help: "Best-effort notifications that failed"},
		[]string{"channel"},
	)
	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{Namespace: "carpool", Name: "ws_connections", Help: "Open websocket connections"})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "carpool", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "carpool",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
