package planner

import (
	"errors"
	"testing"
	"time"

	"github.com/agrinet/allocd/core/model"
	"github.com/agrinet/allocd/core/pool"
	"github.com/agrinet/allocd/core/pricing"
	"github.com/agrinet/allocd/infra/logger"
)

func newTestPlanner(t *testing.T) (*Planner, *pool.Pool) {
	t.Helper()
	p := pool.New(pool.Config{}, logger.NopLogger{})
	pl, err := New(p, pricing.New(pricing.Config{}), logger.NopLogger{})
	if err != nil {
		t.Fatalf("planner: %v", err)
	}
	return pl, p
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
		MaxPrice:      10000,
	}
}

func TestPlanWaterDirect(t *testing.T) {
	pl, _ := newTestPlanner(t)
	start := time.Date(2026, 7, 14, 10, 0, 0, 0, time.UTC)
	req := waterReq("w1", 2000, 2, start)
	req.MaxPrice = 150

	alloc, alts, err := pl.Plan(req)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(alts) != 0 {
		t.Fatalf("direct grant should carry no alternatives")
	}
	if alloc.Cost != 100 {
		t.Fatalf("expected cost $100.00 got $%.2f", alloc.Cost)
	}
	if alloc.Efficiency != 1.0 {
		t.Fatalf("expected efficiency 1.0 got %.2f", alloc.Efficiency)
	}
	if !alloc.EndTime.Equal(start.Add(2 * time.Hour)) {
		t.Fatalf("unexpected window end %v", alloc.EndTime)
	}
}

func TestPlanCapacityExceededAlternatives(t *testing.T) {
	pl, p := newTestPlanner(t)
	start := time.Date(2026, 7, 14, 8, 0, 0, 0, time.UTC)

	if _, _, err := pl.Plan(waterReq("base", 9500, 2, start)); err != nil {
		t.Fatalf("seed allocation: %v", err)
	}

	_, alts, err := pl.Plan(waterReq("want", 1000, 2, start))
	if !errors.Is(err, model.ErrCapacityExceeded) {
		t.Fatalf("expected CapacityExceeded, got %v", err)
	}

	// Same-day shifts cannot help; the +24h shift lands on a fresh day. Of
	// the reduced quantities only 400L fits in the remaining 500L.
	if len(alts) != 2 {
		t.Fatalf("expected 2 alternatives, got %d: %+v", len(alts), alts)
	}
	if alts[0].Type != "time_shift" || !alts[0].StartTime.Equal(start.Add(24*time.Hour)) {
		t.Fatalf("expected +24h time shift first, got %+v", alts[0])
	}
	if alts[1].Type != "reduced_quantity" || alts[1].Quantity != 400 {
		t.Fatalf("expected 400L reduction, got %+v", alts[1])
	}

	// Trial allocations must not leak into the pool.
	if n := len(p.ActiveAllocations()); n != 1 {
		t.Fatalf("expected only the seed allocation active, got %d", n)
	}
}

func TestPlanPriceExceedsBudget(t *testing.T) {
	pl, _ := newTestPlanner(t)
	start := time.Date(2026, 7, 14, 10, 0, 0, 0, time.UTC)
	req := waterReq("w1", 2000, 2, start)
	req.MaxPrice = 60

	_, alts, err := pl.Plan(req)
	if !errors.Is(err, model.ErrPriceExceedsBudget) {
		t.Fatalf("expected PriceExceedsBudget, got %v", err)
	}
	// Time shifts keep the same price and stay over budget; the 60% and 40%
	// reductions come in at $60 and $40.
	if len(alts) != 2 {
		t.Fatalf("expected 2 alternatives, got %d: %+v", len(alts), alts)
	}
	for _, alt := range alts {
		if alt.Cost > req.MaxPrice {
			t.Errorf("alternative over budget: %+v", alt)
		}
	}
}

func TestPlanInvalidRequestNoAlternatives(t *testing.T) {
	pl, _ := newTestPlanner(t)
	req := waterReq("bad", -10, 2, time.Now())
	_, alts, err := pl.Plan(req)
	if !errors.Is(err, model.ErrInvalidRequest) {
		t.Fatalf("expected InvalidRequest, got %v", err)
	}
	if alts != nil {
		t.Fatalf("malformed requests should not produce alternatives")
	}
}

func TestPlanFertilizerDerivesDuration(t *testing.T) {
	pl, _ := newTestPlanner(t)
	start := time.Date(2026, 7, 14, 9, 0, 0, 0, time.UTC)
	req := model.AllocationRequest{
		RequestID:   "f1",
		RequesterID: "farm-1",
		Kind:        model.Fertilizer,
		Quantity:    50,
		StartTime:   start,
		Priority:    model.PriorityNormal,
		MaxPrice:    1000,
	}
	alloc, _, err := pl.Plan(req)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	// 50 kg at 25 kg/h spreads over 2 hours.
	if !alloc.EndTime.Equal(start.Add(2 * time.Hour)) {
		t.Fatalf("expected derived 2h window, got end %v", alloc.EndTime)
	}
	if alloc.Efficiency != 0.9 {
		t.Fatalf("expected fertilizer baseline efficiency, got %.2f", alloc.Efficiency)
	}
}

func TestPlanEquipmentNoQuantityReductions(t *testing.T) {
	pl, _ := newTestPlanner(t)
	start := time.Date(2026, 7, 14, 8, 0, 0, 0, time.UTC)
	req := model.AllocationRequest{
		RequestID:     "e1",
		RequesterID:   "farm-1",
		Kind:          model.Equipment,
		Quantity:      4,
		StartTime:     start,
		DurationHours: 4,
		Priority:      model.PriorityNormal,
		MaxPrice:      1000,
		Metadata:      map[string]string{"equipment_type": "harvester"},
	}
	if _, _, err := pl.Plan(req); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req.RequestID = "e2"
	req.RequesterID = "farm-2"
	_, alts, err := pl.Plan(req)
	if !errors.Is(err, model.ErrCapacityExceeded) {
		t.Fatalf("expected CapacityExceeded, got %v", err)
	}
	for _, alt := range alts {
		if alt.Type == "reduced_quantity" {
			t.Fatalf("equipment must not get quantity reductions: %+v", alt)
		}
	}
	// The single harvester frees up after 4 hours.
	if len(alts) == 0 || !alts[0].StartTime.Equal(start.Add(4*time.Hour)) {
		t.Fatalf("expected +4h shift first, got %+v", alts)
	}
}
