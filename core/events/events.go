// Package events defines the payloads published on the internal event bus.
package events

import (
	"time"

	"github.com/agrinet/allocd/core/model"
)

// AllocationEvent is published for every processed allocation request.
type AllocationEvent struct {
	Request model.AllocationRequest
	Result  model.AllocationResult
	Time    time.Time
}

// OfferEvent notifies the counterparty of a newly created offer.
type OfferEvent struct {
	SessionID  string
	OfferID    string
	SenderID   string
	ReceiverID string
	Kind       model.ResourceKind
	Quantity   float64
	TotalPrice float64
	CounterTo  string
	ExpiresAt  time.Time
}

// SessionEvent is published when a negotiation session reaches a terminal
// state.
type SessionEvent struct {
	SessionID  string
	Kind       model.ResourceKind
	Status     string
	FinalPrice float64
	Rounds     int
	Duration   time.Duration
}
