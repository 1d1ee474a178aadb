package pool

import (
	"fmt"
	"strconv"
	"time"

	"github.com/agrinet/allocd/core/model"
)

// hourSlots iterates the hour slots touched by [start, end). Keys are
// truncated to the hour so windows with sub-hour offsets land on the same
// slots.
func hourSlots(start, end time.Time, fn func(time.Time) bool) bool {
	for t := start.Truncate(time.Hour); t.Before(end); t = t.Add(time.Hour) {
		if !fn(t) {
			return false
		}
	}
	return true
}

// dayOf truncates t to the start of its calendar day.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// waterLedger books irrigation water against a per-day capacity and an
// hour-granular calendar limiting concurrent requesters. The capacity resets
// each calendar day, so shifting a request to the next day sees fresh budget.
type waterLedger struct {
	capacity      float64
	scale         float64
	used          map[time.Time]float64
	maxConcurrent int
	calendar      map[time.Time][]string
}

func newWaterLedger(capacity float64, maxConcurrent int) *waterLedger {
	return &waterLedger{
		capacity:      capacity,
		scale:         1.0,
		used:          make(map[time.Time]float64),
		maxConcurrent: maxConcurrent,
		calendar:      make(map[time.Time][]string),
	}
}

func (w *waterLedger) setScale(s float64) { w.scale = s }

func (w *waterLedger) effectiveCapacity() float64 { return w.capacity * w.scale }

func (w *waterLedger) usedOn(day time.Time) float64 { return w.used[day] }

func (w *waterLedger) check(req model.AllocationRequest) error {
	day := dayOf(req.StartTime)
	if req.Quantity > w.effectiveCapacity()-w.used[day] {
		return fmt.Errorf("%w: %.0fL requested, %.0fL available",
			model.ErrCapacityExceeded, req.Quantity, w.effectiveCapacity()-w.used[day])
	}
	start, end := req.Window()
	ok := hourSlots(start, end, func(t time.Time) bool {
		return len(w.calendar[t]) < w.maxConcurrent
	})
	if !ok {
		return fmt.Errorf("%w: irrigation slot fully booked", model.ErrCapacityExceeded)
	}
	return nil
}

func (w *waterLedger) reserve(req model.AllocationRequest) (map[string]string, error) {
	if err := w.check(req); err != nil {
		return nil, err
	}
	start, end := req.Window()
	hourSlots(start, end, func(t time.Time) bool {
		w.calendar[t] = append(w.calendar[t], req.RequesterID)
		return true
	})
	w.used[dayOf(start)] += req.Quantity
	return nil, nil
}

func (w *waterLedger) release(a model.Allocation) {
	day := dayOf(a.StartTime)
	w.used[day] -= a.Quantity
	if w.used[day] <= 0 {
		delete(w.used, day)
	}
	hourSlots(a.StartTime, a.EndTime, func(t time.Time) bool {
		farms := w.calendar[t]
		for i, id := range farms {
			if id == a.RequesterID {
				w.calendar[t] = append(farms[:i], farms[i+1:]...)
				break
			}
		}
		if len(w.calendar[t]) == 0 {
			delete(w.calendar, t)
		}
		return true
	})
}

// inventoryLedger tracks fertilizer stock per subtype.
type inventoryLedger struct {
	stock map[string]float64
}

func newInventoryLedger(stock map[string]float64) *inventoryLedger {
	cp := make(map[string]float64, len(stock))
	for k, v := range stock {
		cp[k] = v
	}
	return &inventoryLedger{stock: cp}
}

func (l *inventoryLedger) subtype(req model.AllocationRequest) (string, error) {
	typ := req.Attr("fertilizer_type", "nitrogen")
	if _, ok := l.stock[typ]; !ok {
		return "", fmt.Errorf("%w: unknown fertilizer type %q", model.ErrInvalidRequest, typ)
	}
	return typ, nil
}

func (l *inventoryLedger) check(req model.AllocationRequest) error {
	typ, err := l.subtype(req)
	if err != nil {
		return err
	}
	if l.stock[typ] < req.Quantity {
		return fmt.Errorf("%w: %.0fkg %s requested, %.0fkg in stock",
			model.ErrCapacityExceeded, req.Quantity, typ, l.stock[typ])
	}
	return nil
}

func (l *inventoryLedger) reserve(req model.AllocationRequest) (map[string]string, error) {
	if err := l.check(req); err != nil {
		return nil, err
	}
	typ, _ := l.subtype(req)
	l.stock[typ] -= req.Quantity
	return map[string]string{"fertilizer_type": typ}, nil
}

func (l *inventoryLedger) release(a model.Allocation) {
	typ := a.Attrs["fertilizer_type"]
	if _, ok := l.stock[typ]; !ok {
		return
	}
	l.stock[typ] += a.Quantity
}

// equipmentLedger books physical units on an hour calendar, one booking per
// unit and hour. Units are addressed by subtype and index.
type equipmentLedger struct {
	units    map[string]int
	schedule map[string]map[time.Time]bool // unit name -> booked hours
}

func newEquipmentLedger(units map[string]int) *equipmentLedger {
	cp := make(map[string]int, len(units))
	for k, v := range units {
		cp[k] = v
	}
	return &equipmentLedger{units: cp, schedule: make(map[string]map[time.Time]bool)}
}

// freeUnit scans unit indices for the first unit free over the whole window.
func (l *equipmentLedger) freeUnit(typ string, start, end time.Time) (string, bool) {
	for i := 0; i < l.units[typ]; i++ {
		name := fmt.Sprintf("%s_%d", typ, i)
		booked := l.schedule[name]
		free := hourSlots(start, end, func(t time.Time) bool {
			return !booked[t]
		})
		if free {
			return name, true
		}
	}
	return "", false
}

func (l *equipmentLedger) check(req model.AllocationRequest) error {
	typ := req.Attr("equipment_type", "tractor")
	if _, ok := l.units[typ]; !ok {
		return fmt.Errorf("%w: unknown equipment type %q", model.ErrInvalidRequest, typ)
	}
	start, end := req.Window()
	if _, ok := l.freeUnit(typ, start, end); !ok {
		return fmt.Errorf("%w: no free %s in window", model.ErrCapacityExceeded, typ)
	}
	return nil
}

func (l *equipmentLedger) reserve(req model.AllocationRequest) (map[string]string, error) {
	typ := req.Attr("equipment_type", "tractor")
	if _, ok := l.units[typ]; !ok {
		return nil, fmt.Errorf("%w: unknown equipment type %q", model.ErrInvalidRequest, typ)
	}
	start, end := req.Window()
	unit, ok := l.freeUnit(typ, start, end)
	if !ok {
		return nil, fmt.Errorf("%w: no free %s in window", model.ErrCapacityExceeded, typ)
	}
	if l.schedule[unit] == nil {
		l.schedule[unit] = make(map[time.Time]bool)
	}
	hourSlots(start, end, func(t time.Time) bool {
		l.schedule[unit][t] = true
		return true
	})
	return map[string]string{"equipment_type": typ, "equipment_unit": unit}, nil
}

func (l *equipmentLedger) release(a model.Allocation) {
	unit := a.Attrs["equipment_unit"]
	booked := l.schedule[unit]
	if booked == nil {
		return
	}
	hourSlots(a.StartTime, a.EndTime, func(t time.Time) bool {
		delete(booked, t)
		return true
	})
	if len(booked) == 0 {
		delete(l.schedule, unit)
	}
}

// workforceLedger counts available versus assigned workers.
type workforceLedger struct {
	workers  int
	assigned int
}

func newWorkforceLedger(workers int) *workforceLedger {
	return &workforceLedger{workers: workers}
}

func (l *workforceLedger) required(req model.AllocationRequest) int {
	return int(req.Quantity)
}

func (l *workforceLedger) check(req model.AllocationRequest) error {
	need := l.required(req)
	if l.workers-l.assigned < need {
		return fmt.Errorf("%w: %d workers requested, %d available",
			model.ErrCapacityExceeded, need, l.workers-l.assigned)
	}
	return nil
}

func (l *workforceLedger) reserve(req model.AllocationRequest) (map[string]string, error) {
	if err := l.check(req); err != nil {
		return nil, err
	}
	need := l.required(req)
	l.assigned += need
	return map[string]string{"workers": strconv.Itoa(need)}, nil
}

func (l *workforceLedger) release(a model.Allocation) {
	need, err := strconv.Atoi(a.Attrs["workers"])
	if err != nil {
		need = int(a.Quantity)
	}
	l.assigned -= need
	if l.assigned < 0 {
		l.assigned = 0
	}
}
