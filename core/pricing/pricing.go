// Package pricing computes price quotes for prospective allocations. Quotes
// are pure functions of their inputs so negotiation can reference a stable
// fair-market baseline.
package pricing

import (
	"strconv"
	"time"

	"github.com/agrinet/allocd/core/model"
)

// Config holds the tariff table. Zero values are filled by SetDefaults.
type Config struct {
	WaterPerLiter     float64            `json:"water_per_liter"`
	FertilizerPerKg   float64            `json:"fertilizer_per_kg"`
	EquipmentPerHour  float64            `json:"equipment_per_hour"`
	LaborPerHour      float64            `json:"labor_per_hour"`
	PeakHours         []int              `json:"peak_hours"`
	PeakBonus         float64            `json:"peak_bonus"`
	EquipmentFactors  map[string]float64 `json:"equipment_factors"`
	TransportPerKm    float64            `json:"transport_per_km"`
	DefaultDistanceKm float64            `json:"default_distance_km"`
	LaborSkillRates   map[string]float64 `json:"labor_skill_rates"`
}

// SetDefaults fills unset fields with the standard tariff.
func (c *Config) SetDefaults() {
	if c.WaterPerLiter == 0 {
		c.WaterPerLiter = 0.05
	}
	if c.FertilizerPerKg == 0 {
		c.FertilizerPerKg = 2.50
	}
	if c.EquipmentPerHour == 0 {
		c.EquipmentPerHour = 15.0
	}
	if c.LaborPerHour == 0 {
		c.LaborPerHour = 12.0
	}
	if len(c.PeakHours) == 0 {
		c.PeakHours = []int{6, 18}
	}
	if c.PeakBonus == 0 {
		c.PeakBonus = 0.15
	}
	if c.EquipmentFactors == nil {
		c.EquipmentFactors = map[string]float64{
			"tractor":         1.0,
			"harvester":       2.0,
			"sprayer":         1.2,
			"irrigation_pump": 0.8,
		}
	}
	if c.TransportPerKm == 0 {
		c.TransportPerKm = 0.5
	}
	if c.DefaultDistanceKm == 0 {
		c.DefaultDistanceKm = 5
	}
	if c.LaborSkillRates == nil {
		c.LaborSkillRates = map[string]float64{
			"basic":        10,
			"intermediate": 12,
			"expert":       15,
		}
	}
}

// Policy quotes prices from a fixed tariff table.
type Policy struct {
	cfg Config
}

// New returns a Policy using cfg with defaults applied.
func New(cfg Config) *Policy {
	cfg.SetDefaults()
	return &Policy{cfg: cfg}
}

// UnitPrice returns the base price per unit of the kind.
func (p *Policy) UnitPrice(kind model.ResourceKind) float64 {
	switch kind {
	case model.Water:
		return p.cfg.WaterPerLiter
	case model.Fertilizer:
		return p.cfg.FertilizerPerKg
	case model.Equipment:
		return p.cfg.EquipmentPerHour
	case model.Labor:
		return p.cfg.LaborPerHour
	default:
		return 0
	}
}

// PriorityMultiplier scales the base price by urgency. Critical requests are
// discounted to favor emergencies; low priority pays a premium.
func PriorityMultiplier(prio model.Priority) float64 {
	switch prio {
	case model.PriorityCritical:
		return 0.8
	case model.PriorityHigh:
		return 0.9
	case model.PriorityLow:
		return 1.2
	default:
		return 1.0
	}
}

// IsPeakHour reports whether the hour of day is configured as a peak
// irrigation hour.
func (p *Policy) IsPeakHour(hour int) bool {
	for _, h := range p.cfg.PeakHours {
		if h == hour {
			return true
		}
	}
	return false
}

// PeakBonus returns the efficiency bonus granted per peak hour.
func (p *Policy) PeakBonus() float64 { return p.cfg.PeakBonus }

// Quote computes the price for the request. The result depends only on the
// request fields and the tariff table.
func (p *Policy) Quote(req model.AllocationRequest) float64 {
	mult := PriorityMultiplier(req.Priority)
	switch req.Kind {
	case model.Water:
		base := req.Quantity * p.cfg.WaterPerLiter
		return base * mult * p.peakDiscount(req.StartTime, req.HourSlots())
	case model.Fertilizer:
		base := req.Quantity * p.cfg.FertilizerPerKg * mult
		distance := p.cfg.DefaultDistanceKm
		if d, ok := parseFloat(req.Attr("distance_km", "")); ok {
			distance = d
		}
		return base + distance*p.cfg.TransportPerKm
	case model.Equipment:
		base := req.DurationHours * p.cfg.EquipmentPerHour * mult
		factor, ok := p.cfg.EquipmentFactors[req.Attr("equipment_type", "tractor")]
		if !ok {
			factor = 1.0
		}
		return base * factor
	case model.Labor:
		rate, ok := p.cfg.LaborSkillRates[req.Attr("skill_level", "basic")]
		if !ok {
			rate = p.cfg.LaborSkillRates["basic"]
		}
		return req.Quantity * req.DurationHours * rate * mult
	default:
		return 0
	}
}

// FairPrice is the quote absent any priority or timing adjustment; it anchors
// negotiation convergence.
func (p *Policy) FairPrice(kind model.ResourceKind, quantity float64) float64 {
	return p.UnitPrice(kind) * quantity
}

// peakDiscount reduces the effective water cost proportionally to the share
// of requested hours inside peak hours.
func (p *Policy) peakDiscount(start time.Time, slots int) float64 {
	if slots <= 0 {
		return 1
	}
	peak := 0
	for i := 0; i < slots; i++ {
		if p.IsPeakHour(start.Add(time.Duration(i) * time.Hour).Hour()) {
			peak++
		}
	}
	return 1 - p.cfg.PeakBonus*float64(peak)/float64(slots)
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
