package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/agrinet/allocd/core/metrics"
)

// PromSink records allocation and negotiation outcomes in Prometheus metrics.
type PromSink struct {
	allocations  *prometheus.CounterVec
	negotiations *prometheus.CounterVec
	rounds       *prometheus.HistogramVec
}

// NewPromSink registers the collectors on the provided Prometheus registerer.
// If reg is nil, the default registerer is used. Already-registered
// collectors are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	allocations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "allocation_requests_total",
		Help: "Total number of processed allocation requests",
	}, []string{"resource_kind", "status"})
	negotiations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "negotiation_outcomes_total",
		Help: "Total number of terminal negotiation sessions",
	}, []string{"item_type", "status"})
	rounds := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "negotiation_rounds",
		Help:    "Offers exchanged before a session closed",
		Buckets: []float64{1, 2, 3, 4, 6, 8, 12, 20},
	}, []string{"item_type"})

	if err := reg.Register(allocations); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			allocations = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(negotiations); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			negotiations = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(rounds); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			rounds = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	return &PromSink{allocations: allocations, negotiations: negotiations, rounds: rounds}, nil
}

// RecordAllocation increments the request counter.
func (s *PromSink) RecordAllocation(rec coremetrics.AllocationRecord) error {
	s.allocations.WithLabelValues(rec.Kind.String(), string(rec.Status)).Inc()
	return nil
}

// RecordNegotiation increments the outcome counter and observes the round
// count.
func (s *PromSink) RecordNegotiation(rec coremetrics.NegotiationRecord) error {
	s.negotiations.WithLabelValues(rec.Kind.String(), rec.Status).Inc()
	s.rounds.WithLabelValues(rec.Kind.String()).Observe(float64(rec.Rounds))
	return nil
}
