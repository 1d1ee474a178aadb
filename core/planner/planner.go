// Package planner turns allocation requests into allocations. A request that
// cannot be satisfied degrades into a structured failure carrying alternative
// proposals instead of an error the caller must abandon on.
package planner

import (
	"fmt"

	"github.com/agrinet/allocd/core/logger"
	"github.com/agrinet/allocd/core/model"
	"github.com/agrinet/allocd/core/pool"
	"github.com/agrinet/allocd/core/pricing"
)

// Planner coordinates the pricing policy and the resource pool for a single
// allocation attempt.
type Planner struct {
	pool    *pool.Pool
	pricing *pricing.Policy
	log     logger.Logger
}

// New creates a Planner.
func New(p *pool.Pool, policy *pricing.Policy, log logger.Logger) (*Planner, error) {
	if p == nil || policy == nil {
		return nil, fmt.Errorf("planner: nil pool or pricing policy")
	}
	return &Planner{pool: p, pricing: policy, log: log}, nil
}

// Plan attempts the request. On success it returns the reserved allocation.
// On failure it returns the failure cause together with alternatives the
// requester could accept instead; generating alternatives never leaves
// residual reservations behind.
func (p *Planner) Plan(req model.AllocationRequest) (model.Allocation, []model.Alternative, error) {
	req = p.normalize(req)
	if err := req.Validate(); err != nil {
		return model.Allocation{}, nil, err
	}

	alloc, err := p.attempt(req)
	if err == nil {
		p.log.Infof("allocated %.1f %s to %s for $%.2f",
			alloc.Quantity, alloc.Kind, alloc.RequesterID, alloc.Cost)
		return alloc, nil, nil
	}

	alts := p.alternatives(req)
	p.log.Infof("request %s infeasible (%v), %d alternatives found",
		req.RequestID, err, len(alts))
	return model.Allocation{}, alts, err
}

// normalize derives the fertilizer application duration when omitted.
func (p *Planner) normalize(req model.AllocationRequest) model.AllocationRequest {
	if req.Kind == model.Fertilizer && req.DurationHours == 0 {
		req.DurationHours = p.pool.FertilizerDuration(req.Quantity)
	}
	return req
}

// attempt runs one feasibility-price-reserve cycle.
func (p *Planner) attempt(req model.AllocationRequest) (model.Allocation, error) {
	if err := p.pool.CheckAvailable(req); err != nil {
		return model.Allocation{}, err
	}
	efficiency := p.efficiency(req)
	cost := p.pricing.Quote(req)
	if req.MaxPrice > 0 && cost > req.MaxPrice {
		return model.Allocation{}, fmt.Errorf("%w: $%.2f over budget $%.2f",
			model.ErrPriceExceedsBudget, cost, req.MaxPrice)
	}
	return p.pool.Reserve(req, cost, efficiency)
}
