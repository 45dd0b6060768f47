package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travelbook",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint and status code.",
		},
		[]string{"endpoint", "code"},
	)

	bookingsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travelbook",
			Name:      "bookings_created_total",
			Help:      "Tour and vehicle bookings created.",
		},
		[]string{"kind"},
	)

	calendarCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travelbook",
			Name:      "calendar_cache_total",
			Help:      "Vehicle calendar cache lookups by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, bookingsCreated, calendarCacheHits)
	})
}

// IncHTTP increments the request counter for an endpoint and status code.
func IncHTTP(endpoint, code string) {
	httpRequests.WithLabelValues(endpoint, code).Inc()
}

// IncBooking counts a created booking, kind is "tour" or "vehicle".
func IncBooking(kind string) {
	bookingsCreated.WithLabelValues(kind).Inc()
}

// IncCalendarCache counts a cache lookup, outcome is "hit" or "miss".
func IncCalendarCache(outcome string) {
	calendarCacheHits.WithLabelValues(outcome).Inc()
}
