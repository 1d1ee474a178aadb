package pricing

import (
	"math"
	"testing"
	"time"

	"github.com/agrinet/allocd/core/model"
)

func waterRequest(quantity, hours float64, start time.Time, prio model.Priority) model.AllocationRequest {
	return model.AllocationRequest{
		RequestID:     "req-1",
		RequesterID:   "farm-1",
		Kind:          model.Water,
		Quantity:      quantity,
		StartTime:     start,
		DurationHours: hours,
		Priority:      prio,
	}
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestQuoteWaterOffPeak(t *testing.T) {
	p := New(Config{})
	start := time.Date(2026, 7, 14, 10, 0, 0, 0, time.UTC)
	req := waterRequest(2000, 2, start, model.PriorityNormal)
	cost := p.Quote(req)
	if !almostEqual(cost, 100) {
		t.Fatalf("expected $100.00 got $%.2f", cost)
	}
}

func TestQuoteWaterPeakDiscount(t *testing.T) {
	p := New(Config{})
	// Hour 6 is peak, hour 7 is not: half the window is discounted.
	start := time.Date(2026, 7, 14, 6, 0, 0, 0, time.UTC)
	req := waterRequest(2000, 2, start, model.PriorityNormal)
	cost := p.Quote(req)
	want := 2000 * 0.05 * (1 - 0.15*0.5)
	if !almostEqual(cost, want) {
		t.Fatalf("expected $%.2f got $%.2f", want, cost)
	}
}

func TestPriorityMultipliers(t *testing.T) {
	cases := []struct {
		prio model.Priority
		want float64
	}{
		{model.PriorityCritical, 0.8},
		{model.PriorityHigh, 0.9},
		{model.PriorityNormal, 1.0},
		{model.PriorityLow, 1.2},
	}
	for _, tc := range cases {
		if got := PriorityMultiplier(tc.prio); got != tc.want {
			t.Errorf("%s: expected %.1f got %.1f", tc.prio, tc.want, got)
		}
	}
}

func TestQuoteFertilizerTransport(t *testing.T) {
	p := New(Config{})
	req := model.AllocationRequest{
		Kind:          model.Fertilizer,
		Quantity:      100,
		DurationHours: 4,
		Priority:      model.PriorityNormal,
	}
	// Default distance 5 km at $0.50/km.
	want := 100*2.50 + 5*0.5
	if got := p.Quote(req); !almostEqual(got, want) {
		t.Fatalf("expected $%.2f got $%.2f", want, got)
	}

	req.Metadata = map[string]string{"distance_km": "12"}
	want = 100*2.50 + 12*0.5
	if got := p.Quote(req); !almostEqual(got, want) {
		t.Fatalf("expected $%.2f with explicit distance got $%.2f", want, got)
	}
}

func TestQuoteEquipmentFactor(t *testing.T) {
	p := New(Config{})
	req := model.AllocationRequest{
		Kind:          model.Equipment,
		Quantity:      8,
		DurationHours: 8,
		Priority:      model.PriorityNormal,
		Metadata:      map[string]string{"equipment_type": "harvester"},
	}
	want := 8 * 15.0 * 2.0
	if got := p.Quote(req); !almostEqual(got, want) {
		t.Fatalf("expected $%.2f got $%.2f", want, got)
	}
}

func TestQuoteLaborSkillRate(t *testing.T) {
	p := New(Config{})
	req := model.AllocationRequest{
		Kind:          model.Labor,
		Quantity:      3,
		DurationHours: 6,
		Priority:      model.PriorityHigh,
		Metadata:      map[string]string{"skill_level": "expert"},
	}
	want := 3 * 6 * 15.0 * 0.9
	if got := p.Quote(req); !almostEqual(got, want) {
		t.Fatalf("expected $%.2f got $%.2f", want, got)
	}
}

func TestQuoteIsPure(t *testing.T) {
	p := New(Config{})
	start := time.Date(2026, 7, 14, 10, 0, 0, 0, time.UTC)
	req := waterRequest(1500, 3, start, model.PriorityLow)
	first := p.Quote(req)
	for i := 0; i < 5; i++ {
		if got := p.Quote(req); got != first {
			t.Fatalf("quote changed between calls: %.4f vs %.4f", first, got)
		}
	}
}

func TestFairPrice(t *testing.T) {
	p := New(Config{})
	if got := p.FairPrice(model.Equipment, 8); !almostEqual(got, 120) {
		t.Fatalf("expected $120.00 got $%.2f", got)
	}
	if got := p.FairPrice(model.Water, 2000); !almostEqual(got, 100) {
		t.Fatalf("expected $100.00 got $%.2f", got)
	}
}
