package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reservationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reservations_created_total",
			Help: "Total reservations created",
		},
	)

	reservationsCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reservations_cancelled_total",
			Help: "Total reservations cancelled",
		},
	)

	reservationConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reservation_conflicts_total",
			Help: "Total bookings rejected because of a schedule overlap",
		},
	)

	logins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Total login attempts",
		},
		[]string{"status"},
	)
)

func TrackReservationCreated()   { reservationsCreated.Inc() }
func TrackReservationCancelled() { reservationsCancelled.Inc() }
func TrackReservationConflict()  { reservationConflicts.Inc() }

func TrackLogin(ok bool) {
	status := "ok"
	if !ok {
		status = "failed"
	}
	logins.WithLabelValues(status).Inc()
}
