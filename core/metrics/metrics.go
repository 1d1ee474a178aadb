package metrics

import (
	"time"

	"github.com/agrinet/allocd/core/model"
)

// AllocationRecord represents one processed allocation request.
type AllocationRecord struct {
	RequestID    string
	RequesterID  string
	Kind         model.ResourceKind
	Quantity     float64
	Status       model.ResultStatus
	Cost         float64
	Efficiency   float64
	Alternatives int
	Time         time.Time
}

// NegotiationRecord represents one terminal negotiation session.
type NegotiationRecord struct {
	SessionID  string
	Kind       model.ResourceKind
	Status     string
	FinalPrice float64
	Rounds     int
	Duration   time.Duration
	Time       time.Time
}

// Sink records allocation outcomes for observability purposes.
type Sink interface {
	RecordAllocation(rec AllocationRecord) error
}

// NegotiationRecorder records negotiation outcomes when supported by a sink.
type NegotiationRecorder interface {
	RecordNegotiation(rec NegotiationRecord) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordAllocation(AllocationRecord) error   { return nil }
func (NopSink) RecordNegotiation(NegotiationRecord) error { return nil }
