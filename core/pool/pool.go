// Package pool keeps the authoritative capacity, inventory and calendar
// bookkeeping for every resource kind. All mutating calls are serialized
// behind the pool lock so active allocations can never oversubscribe a
// ledger; status queries run under a read lock.
package pool

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agrinet/allocd/core/logger"
	"github.com/agrinet/allocd/core/model"
)

// ledger is the per-kind reservation backend. Implementations hold their own
// representation: an hour calendar, an inventory counter or a worker counter.
// Callers hold the pool lock.
type ledger interface {
	// check reports whether the request fits without mutating state.
	check(req model.AllocationRequest) error
	// reserve consumes capacity and returns the attributes needed to undo
	// exactly this reservation.
	reserve(req model.AllocationRequest) (map[string]string, error)
	// release restores what reserve consumed.
	release(a model.Allocation)
}

// Pool owns one ledger per resource kind and the set of active allocations.
type Pool struct {
	mu      sync.RWMutex
	cfg     Config
	log     logger.Logger
	ledgers map[model.ResourceKind]ledger
	water   *waterLedger
	active  map[string]*model.Allocation
}

// New creates a Pool from cfg with defaults applied.
func New(cfg Config, log logger.Logger) *Pool {
	cfg.SetDefaults()
	water := newWaterLedger(cfg.WaterCapacity, cfg.WaterMaxConcurrent)
	p := &Pool{
		cfg:    cfg,
		log:    log,
		water:  water,
		active: make(map[string]*model.Allocation),
	}
	p.ledgers = map[model.ResourceKind]ledger{
		model.Water:      water,
		model.Fertilizer: newInventoryLedger(cfg.FertilizerStock),
		model.Equipment:  newEquipmentLedger(cfg.EquipmentUnits),
		model.Labor:      newWorkforceLedger(cfg.Workers),
	}
	return p
}

// FertilizerDuration derives the application duration in hours for a
// fertilizer quantity, bounded below by one hour.
func (p *Pool) FertilizerDuration(quantity float64) float64 {
	d := quantity / p.cfg.ApplicationRate
	if d < 1 {
		return 1
	}
	return d
}

// CheckAvailable reports whether the request could be reserved right now
// without consuming anything.
func (p *Pool) CheckAvailable(req model.AllocationRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ledgers[req.Kind].check(req)
}

// Reserve consumes capacity for the request and returns the resulting
// allocation. Cost and efficiency are computed by the planner; the pool only
// records them.
func (p *Pool) Reserve(req model.AllocationRequest, cost, efficiency float64) (model.Allocation, error) {
	if err := req.Validate(); err != nil {
		reservationFailures.WithLabelValues(req.Kind.String()).Inc()
		return model.Allocation{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	attrs, err := p.ledgers[req.Kind].reserve(req)
	if err != nil {
		reservationFailures.WithLabelValues(req.Kind.String()).Inc()
		return model.Allocation{}, fmt.Errorf("reserve %s: %w", req.Kind, err)
	}

	start, end := req.Window()
	quantity := req.Quantity
	if req.Kind == model.Equipment {
		// One physical unit; the request quantity expresses hours.
		quantity = 1
	}
	alloc := model.Allocation{
		ID:          uuid.NewString(),
		RequesterID: req.RequesterID,
		Kind:        req.Kind,
		Quantity:    quantity,
		StartTime:   start,
		EndTime:     end,
		Cost:        cost,
		Efficiency:  efficiency,
		Status:      model.AllocationActive,
		Attrs:       attrs,
	}
	p.active[alloc.ID] = &alloc
	reservations.WithLabelValues(req.Kind.String()).Inc()
	activeAllocations.WithLabelValues(req.Kind.String()).Inc()
	return alloc, nil
}

// Release restores exactly the capacity the allocation consumed. It is
// idempotent: releasing an unknown or already-released allocation logs a
// warning and does nothing.
func (p *Pool) Release(allocationID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releaseLocked(allocationID)
}

func (p *Pool) releaseLocked(allocationID string) {
	alloc, ok := p.active[allocationID]
	if !ok {
		p.log.Warnf("release of unknown or already released allocation %s", allocationID)
		return
	}
	p.ledgers[alloc.Kind].release(*alloc)
	alloc.Status = model.AllocationReleased
	delete(p.active, allocationID)
	releases.WithLabelValues(alloc.Kind.String()).Inc()
	activeAllocations.WithLabelValues(alloc.Kind.String()).Dec()
}

// ReclaimExpired releases every active allocation whose end time has passed.
// It returns the number of allocations reclaimed.
func (p *Pool) ReclaimExpired(now time.Time) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	var expired []string
	for id, alloc := range p.active {
		if !alloc.EndTime.After(now) {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		alloc := p.active[id]
		p.ledgers[alloc.Kind].release(*alloc)
		alloc.Status = model.AllocationExpired
		delete(p.active, id)
		releases.WithLabelValues(alloc.Kind.String()).Inc()
		activeAllocations.WithLabelValues(alloc.Kind.String()).Dec()
	}
	if len(expired) > 0 {
		p.log.Infof("reclaimed %d expired allocations", len(expired))
	}
	return len(expired)
}

// ApplyHint transiently scales the effective water capacity when the external
// predictor signals high need with sufficient confidence. A hint below the
// thresholds restores the nominal capacity.
func (p *Pool) ApplyHint(hint model.CapacityHint) {
	if hint.Kind != model.Water {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if hint.PredictedNeed > p.cfg.HintNeedThreshold && hint.Confidence > p.cfg.HintConfidenceThreshold {
		p.water.setScale(p.cfg.HintScale)
		p.log.Infof("water capacity scaled by %.2f on predictor hint", p.cfg.HintScale)
	} else {
		p.water.setScale(1.0)
	}
}

// Allocation returns the active allocation with the given id.
func (p *Pool) Allocation(id string) (model.Allocation, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	alloc, ok := p.active[id]
	if !ok {
		return model.Allocation{}, fmt.Errorf("allocation %s: %w", id, model.ErrNotFound)
	}
	return *alloc, nil
}

// ActiveAllocations returns a copy of the active allocation set.
func (p *Pool) ActiveAllocations() []model.Allocation {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]model.Allocation, 0, len(p.active))
	for _, a := range p.active {
		out = append(out, *a)
	}
	return out
}
