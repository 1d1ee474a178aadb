package app

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/agrinet/allocd/core/events"
	"github.com/agrinet/allocd/core/model"
)

// pendingRequests remembers requests that went to negotiation so an accepted
// alternative can be replayed against the pool.
type pendingRequests struct {
	mu   sync.Mutex
	reqs map[string]model.AllocationRequest
}

func newPendingRequests() *pendingRequests {
	return &pendingRequests{reqs: make(map[string]model.AllocationRequest)}
}

func (p *pendingRequests) put(req model.AllocationRequest) {
	p.mu.Lock()
	p.reqs[req.RequestID] = req
	p.mu.Unlock()
}

func (p *pendingRequests) take(id string) (model.AllocationRequest, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	req, ok := p.reqs[id]
	if ok {
		delete(p.reqs, id)
	}
	return req, ok
}

// HandleAllocation processes one allocation request and returns a structured
// result. Planner failures are never fatal: a request that cannot be granted
// directly degrades to negotiation_required with alternatives, or rejected
// when none exist.
func (s *Service) HandleAllocation(req model.AllocationRequest) model.AllocationResult {
	var result model.AllocationResult
	alloc, alts, err := s.Planner.Plan(req)
	switch {
	case err == nil:
		result = model.AllocationResult{
			Status:       model.StatusAllocated,
			RequestID:    req.RequestID,
			AllocationID: alloc.ID,
			Cost:         alloc.Cost,
			Efficiency:   alloc.Efficiency,
			StartTime:    alloc.StartTime,
			EndTime:      alloc.EndTime,
		}
	case errors.Is(err, model.ErrInvalidRequest):
		result = model.AllocationResult{
			Status:    model.StatusError,
			RequestID: req.RequestID,
			Error:     err.Error(),
		}
	case len(alts) > 0:
		s.pending.put(req)
		result = model.AllocationResult{
			Status:       model.StatusNegotiationRequired,
			RequestID:    req.RequestID,
			Alternatives: alts,
			Error:        err.Error(),
		}
	default:
		result = model.AllocationResult{
			Status:    model.StatusRejected,
			RequestID: req.RequestID,
			Error:     err.Error(),
		}
	}
	s.bus.Publish(events.AllocationEvent{Request: req, Result: result, Time: time.Now()})
	return result
}

// ApplyHint forwards a predictor hint to the pool.
func (s *Service) ApplyHint(hint model.CapacityHint) {
	s.Pool.ApplyHint(hint)
}

// HandleNegotiation dispatches one inbound negotiation action.
func (s *Service) HandleNegotiation(action model.NegotiationAction) (model.NegotiationOutcome, error) {
	switch action.Action {
	case "accept_alternative":
		return s.acceptAlternative(action)
	case "make_offer":
		return s.makeOffer(action)
	case "counter_offer":
		offer, err := s.Coordinator.CounterOffer(action.SessionID, action.AgentID, action.Price, action.Quantity, action.Payload)
		if err != nil {
			return model.NegotiationOutcome{}, err
		}
		session, err := s.Coordinator.Session(action.SessionID)
		if err != nil {
			return model.NegotiationOutcome{}, err
		}
		return model.NegotiationOutcome{
			SessionID: action.SessionID,
			OfferID:   offer.ID,
			Status:    string(session.Status),
		}, nil
	case "accept":
		if err := s.Coordinator.Accept(action.SessionID, action.AgentID, action.OfferID); err != nil {
			return model.NegotiationOutcome{}, err
		}
		return model.NegotiationOutcome{
			SessionID: action.SessionID,
			OfferID:   action.OfferID,
			Status:    "agreed",
		}, nil
	case "reject":
		if err := s.Coordinator.Reject(action.SessionID, action.AgentID, action.Reason); err != nil {
			return model.NegotiationOutcome{}, err
		}
		return model.NegotiationOutcome{SessionID: action.SessionID, Status: "rejected"}, nil
	default:
		return model.NegotiationOutcome{}, fmt.Errorf("%w: unknown action %q", model.ErrInvalidRequest, action.Action)
	}
}

// acceptAlternative replays a pending request modified by the selected
// alternative.
func (s *Service) acceptAlternative(action model.NegotiationAction) (model.NegotiationOutcome, error) {
	id := action.Payload["request_id"]
	req, ok := s.pending.take(id)
	if !ok {
		return model.NegotiationOutcome{}, fmt.Errorf("pending request %s: %w", id, model.ErrNotFound)
	}
	switch action.Payload["type"] {
	case "time_shift":
		start, err := time.Parse(time.RFC3339, action.Payload["start_time"])
		if err != nil {
			return model.NegotiationOutcome{}, fmt.Errorf("%w: bad start_time: %v", model.ErrInvalidRequest, err)
		}
		req.StartTime = start
	case "reduced_quantity":
		q, err := strconv.ParseFloat(action.Payload["quantity"], 64)
		if err != nil || q <= 0 {
			return model.NegotiationOutcome{}, fmt.Errorf("%w: bad quantity", model.ErrInvalidRequest)
		}
		req.Quantity = q
	default:
		return model.NegotiationOutcome{}, fmt.Errorf("%w: unknown alternative type %q", model.ErrInvalidRequest, action.Payload["type"])
	}
	req.RequestID = req.RequestID + "_accepted"
	result := s.HandleAllocation(req)
	return model.NegotiationOutcome{Status: string(result.Status), Result: &result}, nil
}

// makeOffer opens a negotiation session on behalf of the acting agent.
func (s *Service) makeOffer(action model.NegotiationAction) (model.NegotiationOutcome, error) {
	kind, err := model.ParseResourceKind(action.Payload["item_type"])
	if err != nil {
		return model.NegotiationOutcome{}, err
	}
	responder := action.Payload["responder_id"]
	if responder == "" {
		responder = "resource-pool"
	}
	session, err := s.Coordinator.Initiate(action.AgentID, responder, kind, action.Quantity, action.Price, action.Payload)
	if err != nil {
		return model.NegotiationOutcome{}, err
	}
	return model.NegotiationOutcome{
		SessionID: session.ID,
		OfferID:   session.Offers[0].ID,
		Status:    string(session.Status),
	}, nil
}
