// Package metrics exposes Prometheus collectors for HTTP traffic and bookings.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legalbooking_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "legalbooking_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	reservationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legalbooking_reservation_events_total",
			Help: "Reservation lifecycle events by type",
		},
		[]string{"event"},
	)

	slotConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "legalbooking_slot_conflicts_total",
			Help: "Reservation attempts rejected because the slot was taken",
		},
	)

	slotsReconciledTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legalbooking_slots_reconciled_total",
			Help: "Slots whose availability flag was repaired",
		},
		[]string{"action"},
	)

	assistantRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legalbooking_assistant_requests_total",
			Help: "Assistant requests by outcome",
		},
		[]string{"outcome"},
	)
)

// Middleware records request count and latency by route pattern.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			method := c.Request().Method

			httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
			httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// ReservationEvent counts one reservation lifecycle event.
func ReservationEvent(event string) {
	reservationsTotal.WithLabelValues(event).Inc()
}

// SlotConflict counts a rejected double booking.
func SlotConflict() {
	slotConflictsTotal.Inc()
}

// SlotsReconciled counts n repaired slots.
func SlotsReconciled(action string, n int64) {
	if n > 0 {
		slotsReconciledTotal.WithLabelValues(action).Add(float64(n))
	}
}

// AssistantRequest counts one assistant request.
func AssistantRequest(outcome string) {
	assistantRequestsTotal.WithLabelValues(outcome).Inc()
}
