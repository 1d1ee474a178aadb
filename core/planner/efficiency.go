package planner

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/agrinet/allocd/core/model"
)

// Baseline efficiency per kind; water is timing-dependent.
const (
	fertilizerEfficiency = 0.9
	equipmentEfficiency  = 0.85
	laborEfficiency      = 0.8
)

// efficiency scores how favorably timed the allocation is, in [0,1]. Water
// scores the mean per-hour value across the window, each peak hour adding the
// configured bonus; the other kinds use fixed baselines.
func (p *Planner) efficiency(req model.AllocationRequest) float64 {
	switch req.Kind {
	case model.Water:
		slots := req.HourSlots()
		if slots == 0 {
			return 1
		}
		hours := make([]float64, 0, slots)
		for i := 0; i < slots; i++ {
			v := 1.0
			if p.pricing.IsPeakHour(req.StartTime.Add(time.Duration(i) * time.Hour).Hour()) {
				v += p.pricing.PeakBonus()
			}
			hours = append(hours, v)
		}
		mean := stat.Mean(hours, nil)
		if mean > 1 {
			return 1
		}
		return mean
	case model.Fertilizer:
		return fertilizerEfficiency
	case model.Equipment:
		return equipmentEfficiency
	case model.Labor:
		return laborEfficiency
	default:
		return 0
	}
}
