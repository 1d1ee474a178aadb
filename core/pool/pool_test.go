package pool

import (
	"errors"
	"testing"
	"time"

	"github.com/agrinet/allocd/core/model"
	"github.com/agrinet/allocd/infra/logger"
)

func newTestPool(t *testing.T) *Pool {
	t.Helper()
	return New(Config{}, logger.NopLogger{})
}

func waterReq(id string, quantity, hours float64, start time.Time) model.AllocationRequest {
	return model.AllocationRequest{
		RequestID:     id,
		RequesterID:   "farm-" + id,
		Kind:          model.Water,
		Quantity:      quantity,
		StartTime:     start,
		DurationHours: hours,
		Priority:      model.PriorityNormal,
	}
}

func TestReserveReleaseRoundTrip(t *testing.T) {
	p := newTestPool(t)
	start := time.Date(2026, 7, 14, 10, 0, 0, 0, time.UTC)

	before := p.water.usedOn(dayOf(start))
	alloc, err := p.Reserve(waterReq("w1", 2000, 2, start), 100, 1.0)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if got := p.water.usedOn(dayOf(start)); got != before+2000 {
		t.Fatalf("expected 2000L booked, got %.0f", got-before)
	}
	p.Release(alloc.ID)
	if got := p.water.usedOn(dayOf(start)); got != before {
		t.Fatalf("release did not restore usage: %.0f", got)
	}
	if len(p.water.calendar) != 0 {
		t.Fatalf("release left calendar entries: %v", p.water.calendar)
	}
}

func TestReserveCapacityExceeded(t *testing.T) {
	p := newTestPool(t)
	start := time.Date(2026, 7, 14, 8, 0, 0, 0, time.UTC)

	if _, err := p.Reserve(waterReq("big", 9500, 2, start), 475, 1.0); err != nil {
		t.Fatalf("reserve 9500L: %v", err)
	}
	_, err := p.Reserve(waterReq("over", 1000, 2, start.Add(4*time.Hour)), 50, 1.0)
	if !errors.Is(err, model.ErrCapacityExceeded) {
		t.Fatalf("expected CapacityExceeded, got %v", err)
	}
}

func TestWaterCapacityResetsNextDay(t *testing.T) {
	p := newTestPool(t)
	start := time.Date(2026, 7, 14, 8, 0, 0, 0, time.UTC)

	if _, err := p.Reserve(waterReq("today", 9500, 2, start), 475, 1.0); err != nil {
		t.Fatalf("reserve today: %v", err)
	}
	if _, err := p.Reserve(waterReq("tomorrow", 1000, 2, start.Add(24*time.Hour)), 50, 1.0); err != nil {
		t.Fatalf("next-day reserve should see fresh capacity: %v", err)
	}
}

func TestWaterMaxConcurrent(t *testing.T) {
	p := newTestPool(t)
	start := time.Date(2026, 7, 14, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		req := waterReq(string(rune('a'+i)), 100, 1, start)
		if _, err := p.Reserve(req, 5, 1.0); err != nil {
			t.Fatalf("reserve %d: %v", i, err)
		}
	}
	_, err := p.Reserve(waterReq("fifth", 100, 1, start), 5, 1.0)
	if !errors.Is(err, model.ErrCapacityExceeded) {
		t.Fatalf("expected CapacityExceeded on fifth concurrent request, got %v", err)
	}
}

func TestWaterMaxConcurrentMisalignedStart(t *testing.T) {
	p := newTestPool(t)
	start := time.Date(2026, 7, 14, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		req := waterReq(string(rune('a'+i)), 100, 1, start)
		if _, err := p.Reserve(req, 5, 1.0); err != nil {
			t.Fatalf("reserve %d: %v", i, err)
		}
	}
	// 08:30 overlaps the booked 08:00 slot even though the instants differ.
	_, err := p.Reserve(waterReq("late", 100, 1, start.Add(30*time.Minute)), 5, 1.0)
	if !errors.Is(err, model.ErrCapacityExceeded) {
		t.Fatalf("expected CapacityExceeded on overlapping half-hour start, got %v", err)
	}
}

func TestFertilizerInventory(t *testing.T) {
	p := newTestPool(t)
	req := model.AllocationRequest{
		RequestID:     "f1",
		RequesterID:   "farm-1",
		Kind:          model.Fertilizer,
		Quantity:      200,
		StartTime:     time.Date(2026, 7, 14, 8, 0, 0, 0, time.UTC),
		DurationHours: 8,
		Metadata:      map[string]string{"fertilizer_type": "phosphorus"},
	}
	alloc, err := p.Reserve(req, 505, 0.9)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	// Only 100 kg phosphorus left.
	req.RequestID = "f2"
	req.Quantity = 150
	if _, err := p.Reserve(req, 380, 0.9); !errors.Is(err, model.ErrCapacityExceeded) {
		t.Fatalf("expected CapacityExceeded, got %v", err)
	}
	p.Release(alloc.ID)
	if _, err := p.Reserve(req, 380, 0.9); err != nil {
		t.Fatalf("reserve after release: %v", err)
	}
}

func TestFertilizerUnknownSubtype(t *testing.T) {
	p := newTestPool(t)
	req := model.AllocationRequest{
		RequestID:     "f1",
		Kind:          model.Fertilizer,
		Quantity:      10,
		DurationHours: 1,
		Metadata:      map[string]string{"fertilizer_type": "guano"},
	}
	if _, err := p.Reserve(req, 25, 0.9); !errors.Is(err, model.ErrInvalidRequest) {
		t.Fatalf("expected InvalidRequest, got %v", err)
	}
}

func TestEquipmentUnitScheduling(t *testing.T) {
	p := newTestPool(t)
	start := time.Date(2026, 7, 14, 8, 0, 0, 0, time.UTC)
	req := model.AllocationRequest{
		RequestID:     "e1",
		RequesterID:   "farm-1",
		Kind:          model.Equipment,
		Quantity:      4,
		StartTime:     start,
		DurationHours: 4,
		Metadata:      map[string]string{"equipment_type": "harvester"},
	}
	alloc, err := p.Reserve(req, 120, 0.85)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if alloc.Quantity != 1 {
		t.Fatalf("equipment allocation should book one unit, got %.0f", alloc.Quantity)
	}
	if alloc.Attrs["equipment_unit"] != "harvester_0" {
		t.Fatalf("unexpected unit %q", alloc.Attrs["equipment_unit"])
	}

	// Single harvester: overlapping window fails, disjoint window works.
	req.RequestID = "e2"
	req.StartTime = start.Add(2 * time.Hour)
	if _, err := p.Reserve(req, 120, 0.85); !errors.Is(err, model.ErrCapacityExceeded) {
		t.Fatalf("expected CapacityExceeded, got %v", err)
	}
	req.RequestID = "e3"
	req.StartTime = start.Add(4 * time.Hour)
	if _, err := p.Reserve(req, 120, 0.85); err != nil {
		t.Fatalf("disjoint window: %v", err)
	}
}

func TestEquipmentUnitMisalignedOverlap(t *testing.T) {
	p := newTestPool(t)
	start := time.Date(2026, 7, 14, 8, 0, 0, 0, time.UTC)
	req := model.AllocationRequest{
		RequestID:     "e1",
		RequesterID:   "farm-1",
		Kind:          model.Equipment,
		Quantity:      1,
		StartTime:     start,
		DurationHours: 4,
		Metadata:      map[string]string{"equipment_type": "harvester"},
	}
	if _, err := p.Reserve(req, 120, 0.85); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	// The single harvester is busy 08:00-12:00. A 08:30-12:30 window must
	// not reach it through offset slot keys.
	req.RequestID = "e2"
	req.StartTime = start.Add(30 * time.Minute)
	if _, err := p.Reserve(req, 120, 0.85); !errors.Is(err, model.ErrCapacityExceeded) {
		t.Fatalf("expected CapacityExceeded on offset overlap, got %v", err)
	}
}

func TestLaborWorkforce(t *testing.T) {
	p := newTestPool(t)
	req := model.AllocationRequest{
		RequestID:     "l1",
		RequesterID:   "farm-1",
		Kind:          model.Labor,
		Quantity:      5,
		StartTime:     time.Date(2026, 7, 14, 8, 0, 0, 0, time.UTC),
		DurationHours: 6,
	}
	alloc, err := p.Reserve(req, 360, 0.8)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	req.RequestID = "l2"
	req.Quantity = 4
	if _, err := p.Reserve(req, 288, 0.8); !errors.Is(err, model.ErrCapacityExceeded) {
		t.Fatalf("expected CapacityExceeded with 3 workers left, got %v", err)
	}
	p.Release(alloc.ID)
	if _, err := p.Reserve(req, 288, 0.8); err != nil {
		t.Fatalf("reserve after release: %v", err)
	}
}

func TestReleaseIdempotent(t *testing.T) {
	p := newTestPool(t)
	start := time.Date(2026, 7, 14, 10, 0, 0, 0, time.UTC)
	alloc, err := p.Reserve(waterReq("w1", 500, 1, start), 25, 1.0)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	p.Release(alloc.ID)
	p.Release(alloc.ID) // no-op with a warning
	p.Release("no-such-allocation")
	if got := p.water.usedOn(dayOf(start)); got != 0 {
		t.Fatalf("double release corrupted usage: %.0f", got)
	}
}

func TestReclaimExpired(t *testing.T) {
	p := newTestPool(t)
	start := time.Date(2026, 7, 14, 8, 0, 0, 0, time.UTC)
	if _, err := p.Reserve(waterReq("old", 1000, 2, start), 50, 1.0); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if _, err := p.Reserve(waterReq("new", 1000, 2, start.Add(6*time.Hour)), 50, 1.0); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	reclaimed := p.ReclaimExpired(start.Add(3 * time.Hour))
	if reclaimed != 1 {
		t.Fatalf("expected 1 reclaimed, got %d", reclaimed)
	}
	if len(p.ActiveAllocations()) != 1 {
		t.Fatalf("expected 1 active allocation, got %d", len(p.ActiveAllocations()))
	}
	if got := p.water.usedOn(dayOf(start)); got != 1000 {
		t.Fatalf("expected 1000L still booked, got %.0f", got)
	}
}

func TestApplyHintScalesWaterCapacity(t *testing.T) {
	p := newTestPool(t)
	start := time.Date(2026, 7, 14, 8, 0, 0, 0, time.UTC)
	if _, err := p.Reserve(waterReq("base", 10000, 2, start), 500, 1.0); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	over := waterReq("over", 1500, 2, start.Add(4*time.Hour))
	if _, err := p.Reserve(over, 75, 1.0); !errors.Is(err, model.ErrCapacityExceeded) {
		t.Fatalf("expected CapacityExceeded, got %v", err)
	}

	p.ApplyHint(model.CapacityHint{Kind: model.Water, PredictedNeed: 0.9, Confidence: 0.8})
	if _, err := p.Reserve(over, 75, 1.0); err != nil {
		t.Fatalf("hinted reserve: %v", err)
	}

	// A weak hint restores the nominal capacity.
	p.ApplyHint(model.CapacityHint{Kind: model.Water, PredictedNeed: 0.3, Confidence: 0.9})
	if p.water.effectiveCapacity() != 10000 {
		t.Fatalf("expected nominal capacity restored, got %.0f", p.water.effectiveCapacity())
	}
}

func TestReserveInvalidRequest(t *testing.T) {
	p := newTestPool(t)
	req := waterReq("bad", -5, 2, time.Now())
	if _, err := p.Reserve(req, 0, 0); !errors.Is(err, model.ErrInvalidRequest) {
		t.Fatalf("expected InvalidRequest, got %v", err)
	}
	req = waterReq("bad2", 100, 0, time.Now())
	if _, err := p.Reserve(req, 0, 0); !errors.Is(err, model.ErrInvalidRequest) {
		t.Fatalf("expected InvalidRequest for zero duration, got %v", err)
	}
}

func TestSnapshot(t *testing.T) {
	p := newTestPool(t)
	start := dayOf(time.Now()).Add(10 * time.Hour)
	if _, err := p.Reserve(waterReq("w1", 2500, 2, start), 125, 1.0); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	s := p.Snapshot()
	if s.Water.Used != 2500 || s.Water.Available != 7500 {
		t.Fatalf("unexpected water status: %+v", s.Water)
	}
	if s.Fertilizer["nitrogen"] != 500 {
		t.Fatalf("unexpected fertilizer stock: %v", s.Fertilizer)
	}
	if s.Labor.Available != 8 {
		t.Fatalf("unexpected labor status: %+v", s.Labor)
	}
	if s.Active["water"] != 1 {
		t.Fatalf("unexpected active set: %v", s.Active)
	}
}
