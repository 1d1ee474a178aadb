package negotiation

import (
	"time"

	"github.com/agrinet/allocd/core/model"
)

// Status tracks a session through its state machine. Transitions are
// one-directional: Initiated or InProgress move to exactly one terminal
// state.
type Status string

const (
	StatusInitiated  Status = "initiated"
	StatusInProgress Status = "in_progress"
	StatusAgreed     Status = "agreed"
	StatusRejected   Status = "rejected"
	StatusExpired    Status = "expired"
	StatusConflict   Status = "conflict"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	switch s {
	case StatusAgreed, StatusRejected, StatusExpired, StatusConflict:
		return true
	default:
		return false
	}
}

// Offer is a priced, time-bounded proposal within a session, optionally
// countering a prior offer.
type Offer struct {
	ID         string             `json:"id"`
	SessionID  string             `json:"session_id"`
	SenderID   string             `json:"sender_id"`
	ReceiverID string             `json:"receiver_id"`
	Kind       model.ResourceKind `json:"item_type"`
	Quantity   float64            `json:"quantity"`
	UnitPrice  float64            `json:"price_per_unit"`
	TotalPrice float64            `json:"total_price"`
	Conditions map[string]string  `json:"conditions,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
	ExpiresAt  time.Time          `json:"expires_at"`
	CounterTo  string             `json:"counter_to,omitempty"`
}

// Agreement is the final payload of an agreed session.
type Agreement struct {
	AcceptedOfferID string            `json:"accepted_offer_id"`
	FinalPrice      float64           `json:"final_price"`
	FinalQuantity   float64           `json:"final_quantity"`
	Conditions      map[string]string `json:"conditions,omitempty"`
	AgreedAt        time.Time         `json:"agreed_at"`
}

// Session is one bargaining exchange between an initiator and a responder.
// The offer list is append-only and time-ordered.
type Session struct {
	ID              string             `json:"id"`
	InitiatorID     string             `json:"initiator_id"`
	ResponderID     string             `json:"responder_id"`
	Kind            model.ResourceKind `json:"item_type"`
	InitialQuantity float64            `json:"initial_quantity"`
	Status          Status             `json:"status"`
	Offers          []Offer            `json:"offers"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	ExpiresAt       time.Time          `json:"expires_at"`
	FinalAgreement  *Agreement         `json:"final_agreement,omitempty"`
	ConflictReason  string             `json:"conflict_reason,omitempty"`
}

// lastOffer returns the most recent offer. Sessions always hold at least the
// seed offer.
func (s *Session) lastOffer() *Offer {
	return &s.Offers[len(s.Offers)-1]
}

// findOffer returns the offer with the given id.
func (s *Session) findOffer(id string) *Offer {
	for i := range s.Offers {
		if s.Offers[i].ID == id {
			return &s.Offers[i]
		}
	}
	return nil
}

// counterpart returns the other party of the session.
func (s *Session) counterpart(agentID string) string {
	if agentID == s.InitiatorID {
		return s.ResponderID
	}
	return s.InitiatorID
}

// Summary is a compact view of an active session.
type Summary struct {
	SessionID     string             `json:"session_id"`
	Kind          model.ResourceKind `json:"item_type"`
	Quantity      float64            `json:"quantity"`
	Participants  []string           `json:"participants"`
	Status        Status             `json:"status"`
	OfferCount    int                `json:"offers_count"`
	CurrentPrice  float64            `json:"current_price"`
	TimeRemaining time.Duration      `json:"time_remaining"`
	CreatedAt     time.Time          `json:"created_at"`
}
