package pool

import (
	"time"

	"github.com/agrinet/allocd/core/model"
)

// WaterStatus summarizes the irrigation ledger for the current day.
type WaterStatus struct {
	Capacity    float64 `json:"capacity"`
	Used        float64 `json:"used"`
	Available   float64 `json:"available"`
	Utilization float64 `json:"utilization"`
}

// EquipmentStatus summarizes unit availability per subtype.
type EquipmentStatus struct {
	Units     map[string]int `json:"units"`
	BusyHours int            `json:"busy_hours"`
}

// LaborStatus summarizes the workforce ledger.
type LaborStatus struct {
	Workers   int `json:"workers"`
	Assigned  int `json:"assigned"`
	Available int `json:"available"`
}

// Status is a point-in-time snapshot of every ledger.
type Status struct {
	Water      WaterStatus        `json:"water"`
	Fertilizer map[string]float64 `json:"fertilizer"`
	Equipment  EquipmentStatus    `json:"equipment"`
	Labor      LaborStatus        `json:"labor"`
	Active     map[string]int     `json:"active_allocations"`
}

// Snapshot reads the current state of all ledgers.
func (p *Pool) Snapshot() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()

	water := p.water
	cap := water.effectiveCapacity()
	used := water.usedOn(dayOf(time.Now()))
	util := 0.0
	if cap > 0 {
		util = used / cap
	}

	fert := p.ledgers[model.Fertilizer].(*inventoryLedger)
	stock := make(map[string]float64, len(fert.stock))
	for k, v := range fert.stock {
		stock[k] = v
	}

	equip := p.ledgers[model.Equipment].(*equipmentLedger)
	units := make(map[string]int, len(equip.units))
	for k, v := range equip.units {
		units[k] = v
	}
	busy := 0
	for _, hours := range equip.schedule {
		busy += len(hours)
	}

	labor := p.ledgers[model.Labor].(*workforceLedger)

	active := make(map[string]int)
	for _, a := range p.active {
		active[a.Kind.String()]++
	}

	return Status{
		Water: WaterStatus{
			Capacity:    cap,
			Used:        used,
			Available:   cap - used,
			Utilization: util,
		},
		Fertilizer: stock,
		Equipment:  EquipmentStatus{Units: units, BusyHours: busy},
		Labor: LaborStatus{
			Workers:   labor.workers,
			Assigned:  labor.assigned,
			Available: labor.workers - labor.assigned,
		},
		Active: active,
	}
}
