package planner

import (
	"fmt"
	"time"

	"github.com/agrinet/allocd/core/model"
)

// timeShiftOffsets are the candidate start delays tried when the original
// window is infeasible.
var timeShiftOffsets = []int{1, 2, 4, 8, 12, 24}

// quantityReductions are the fractions tried for divisible kinds.
var quantityReductions = []float64{0.8, 0.6, 0.4}

// alternatives re-runs the allocation attempt on bounded request variants:
// six time shifts at the original quantity and, for divisible kinds, three
// reduced quantities at the original start. Each successful trial is released
// immediately; it is hypothetical until the requester accepts it. Results
// keep generation order.
func (p *Planner) alternatives(req model.AllocationRequest) []model.Alternative {
	var alts []model.Alternative

	for _, offset := range timeShiftOffsets {
		variant := req
		variant.RequestID = fmt.Sprintf("%s_alt_%dh", req.RequestID, offset)
		variant.StartTime = req.StartTime.Add(time.Duration(offset) * time.Hour)
		if trial, err := p.attempt(variant); err == nil {
			p.pool.Release(trial.ID)
			alts = append(alts, model.Alternative{
				Type:       "time_shift",
				StartTime:  variant.StartTime,
				Cost:       trial.Cost,
				Efficiency: trial.Efficiency,
			})
		}
	}

	if req.Kind == model.Water || req.Kind == model.Fertilizer {
		for _, frac := range quantityReductions {
			variant := req
			variant.RequestID = fmt.Sprintf("%s_reduced_%d", req.RequestID, int(frac*100))
			variant.Quantity = req.Quantity * frac
			if trial, err := p.attempt(variant); err == nil {
				p.pool.Release(trial.ID)
				alts = append(alts, model.Alternative{
					Type:       "reduced_quantity",
					Quantity:   variant.Quantity,
					Cost:       trial.Cost,
					Efficiency: trial.Efficiency,
				})
			}
		}
	}

	return alts
}
