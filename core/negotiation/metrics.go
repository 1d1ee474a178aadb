package negotiation

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	sessionsStarted *prometheus.CounterVec
	sessionsClosed  *prometheus.CounterVec
	offersMade      *prometheus.CounterVec
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, *prometheus.CounterVec, *prometheus.CounterVec) {
	started := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "negotiation_sessions_started_total",
			Help: "Number of negotiation sessions initiated",
		},
		[]string{"item_type"},
	)
	closed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "negotiation_sessions_closed_total",
			Help: "Number of negotiation sessions reaching a terminal state",
		},
		[]string{"item_type", "status"},
	)
	offers := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "negotiation_offers_total",
			Help: "Number of offers exchanged",
		},
		[]string{"item_type"},
	)
	return started, closed, offers
}

func init() {
	sessionsStarted, sessionsClosed, offersMade = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers negotiation metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(sessionsStarted, sessionsClosed, offersMade)
}

// ResetMetrics reinitializes metric collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	sessionsStarted, sessionsClosed, offersMade = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
