package pool

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	reservations        *prometheus.CounterVec
	releases            *prometheus.CounterVec
	reservationFailures *prometheus.CounterVec
	activeAllocations   *prometheus.GaugeVec
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, *prometheus.CounterVec, *prometheus.CounterVec, *prometheus.GaugeVec) {
	res := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pool_reservations_total",
			Help: "Number of successful reservations",
		},
		[]string{"resource_kind"},
	)
	rel := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pool_releases_total",
			Help: "Number of released or reclaimed allocations",
		},
		[]string{"resource_kind"},
	)
	fail := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pool_reservation_failures_total",
			Help: "Number of reservations refused for capacity or validation reasons",
		},
		[]string{"resource_kind"},
	)
	act := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pool_active_allocations",
			Help: "Currently active allocations",
		},
		[]string{"resource_kind"},
	)
	return res, rel, fail, act
}

func init() {
	reservations, releases, reservationFailures, activeAllocations = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers pool metrics on the provided registry. If reg
// is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(reservations, releases, reservationFailures, activeAllocations)
}

// ResetMetrics reinitializes metric collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	reservations, releases, reservationFailures, activeAllocations = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
