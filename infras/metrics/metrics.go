package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	reservationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "condo",
			Name:      "reservations_total",
			Help:      "Reservation mutations by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	conflictsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "condo",
			Name:      "reservation_conflicts_total",
			Help:      "Booking attempts rejected because the window overlapped an existing reservation.",
		},
	)

	contentionTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "condo",
			Name:      "area_lock_contention_total",
			Help:      "Mutations that failed to acquire the area lock within the timeout.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(reservationsTotal, conflictsTotal, contentionTotal)
	})
}

// IncReservation increments the mutation counter for an operation/outcome pair.
func IncReservation(operation, outcome string) {
	reservationsTotal.WithLabelValues(operation, outcome).Inc()
}

// IncConflict counts a rejected overlapping booking attempt.
func IncConflict() {
	conflictsTotal.Inc()
}

// IncContention counts an area-lock acquisition timeout.
func IncContention() {
	contentionTotal.Inc()
}
