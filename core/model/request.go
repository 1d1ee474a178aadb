package model

import (
	"fmt"
	"math"
	"time"
)

// AllocationRequest asks for a quantity of a resource over a time window.
type AllocationRequest struct {
	RequestID     string            `json:"request_id"`
	RequesterID   string            `json:"requester_id"`
	Kind          ResourceKind      `json:"resource_kind"`
	Quantity      float64           `json:"quantity"`
	StartTime     time.Time         `json:"start_time"`
	DurationHours float64           `json:"duration_hours"`
	Priority      Priority          `json:"priority"`
	MaxPrice      float64           `json:"max_price"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Validate checks the request is well formed. Fertilizer requests may omit
// the duration; it is derived from the application rate at allocation time.
func (r AllocationRequest) Validate() error {
	if r.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidRequest)
	}
	if r.DurationHours < 0 || (r.DurationHours == 0 && r.Kind != Fertilizer) {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidRequest)
	}
	if r.Kind < Water || r.Kind > Labor {
		return fmt.Errorf("%w: unknown resource kind", ErrInvalidRequest)
	}
	return nil
}

// Duration returns the requested duration.
func (r AllocationRequest) Duration() time.Duration {
	return time.Duration(r.DurationHours * float64(time.Hour))
}

// Window returns the candidate allocation window [start, start+duration).
func (r AllocationRequest) Window() (time.Time, time.Time) {
	return r.StartTime, r.StartTime.Add(r.Duration())
}

// HourSlots returns the number of whole hour slots covered by the window.
func (r AllocationRequest) HourSlots() int {
	return int(math.Ceil(r.DurationHours))
}

// Attr returns a metadata attribute or the fallback when absent.
func (r AllocationRequest) Attr(key, fallback string) string {
	if v, ok := r.Metadata[key]; ok && v != "" {
		return v
	}
	return fallback
}

// AllocationStatus tracks the lifecycle of an allocation.
type AllocationStatus string

const (
	AllocationActive   AllocationStatus = "active"
	AllocationReleased AllocationStatus = "released"
	AllocationExpired  AllocationStatus = "expired"
)

// Allocation is a confirmed reservation of a resource quantity for a time
// window, with an associated cost.
type Allocation struct {
	ID          string           `json:"allocation_id"`
	RequesterID string           `json:"requester_id"`
	Kind        ResourceKind     `json:"resource_kind"`
	Quantity    float64          `json:"quantity"`
	StartTime   time.Time        `json:"start_time"`
	EndTime     time.Time        `json:"end_time"`
	Cost        float64          `json:"cost"`
	Efficiency  float64          `json:"efficiency_score"`
	Status      AllocationStatus `json:"status"`

	// Attrs carries the reservation details needed to release exactly what
	// was consumed (fertilizer subtype, equipment unit, worker count).
	Attrs map[string]string `json:"attrs,omitempty"`
}

// Overlaps reports whether the allocation window contains the instant t.
func (a Allocation) Overlaps(t time.Time) bool {
	return !t.Before(a.StartTime) && t.Before(a.EndTime)
}
