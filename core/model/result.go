package model

import "time"

// ResultStatus classifies the outcome of an allocation request.
type ResultStatus string

const (
	StatusAllocated           ResultStatus = "allocated"
	StatusNegotiationRequired ResultStatus = "negotiation_required"
	StatusRejected            ResultStatus = "rejected"
	StatusError               ResultStatus = "error"
)

// Alternative is a hypothetical allocation offered when the original request
// could not be satisfied. Exactly one of StartTime or Quantity differs from
// the original request.
type Alternative struct {
	Type       string    `json:"type"` // time_shift or reduced_quantity
	StartTime  time.Time `json:"start_time,omitempty"`
	Quantity   float64   `json:"quantity,omitempty"`
	Cost       float64   `json:"cost"`
	Efficiency float64   `json:"efficiency_score"`
}

// AllocationResult is the structured response to an AllocationRequest.
type AllocationResult struct {
	Status       ResultStatus  `json:"status"`
	RequestID    string        `json:"request_id"`
	AllocationID string        `json:"allocation_id,omitempty"`
	Cost         float64       `json:"cost,omitempty"`
	Efficiency   float64       `json:"efficiency_score,omitempty"`
	StartTime    time.Time     `json:"start_time,omitempty"`
	EndTime      time.Time     `json:"end_time,omitempty"`
	Alternatives []Alternative `json:"alternatives,omitempty"`
	Error        string        `json:"error,omitempty"`
}

// NegotiationAction is an inbound command against a negotiation session.
type NegotiationAction struct {
	Action    string            `json:"action"` // accept_alternative, make_offer, counter_offer, accept, reject
	SessionID string            `json:"session_id,omitempty"`
	OfferID   string            `json:"offer_id,omitempty"`
	AgentID   string            `json:"agent_id"`
	Price     float64           `json:"price,omitempty"`
	Quantity  float64           `json:"quantity,omitempty"`
	Reason    string            `json:"reason,omitempty"`
	Payload   map[string]string `json:"payload,omitempty"`
}

// NegotiationOutcome reports the effect of a NegotiationAction.
type NegotiationOutcome struct {
	SessionID string            `json:"session_id,omitempty"`
	OfferID   string            `json:"offer_id,omitempty"`
	Status    string            `json:"status"`
	Result    *AllocationResult `json:"result,omitempty"`
}

// CapacityHint comes from an external predictor and may transiently scale a
// pool's effective capacity.
type CapacityHint struct {
	Kind          ResourceKind `json:"resource_kind"`
	PredictedNeed float64      `json:"predicted_need"`
	Confidence    float64      `json:"confidence"`
}
