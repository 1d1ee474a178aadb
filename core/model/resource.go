package model

import "fmt"

// ResourceKind identifies a class of shared farm resource.
type ResourceKind int

const (
	Water ResourceKind = iota
	Fertilizer
	Equipment
	Labor
)

// String returns a human-readable representation of the resource kind.
func (k ResourceKind) String() string {
	switch k {
	case Water:
		return "water"
	case Fertilizer:
		return "fertilizer"
	case Equipment:
		return "equipment"
	case Labor:
		return "labor"
	default:
		return "unknown"
	}
}

// ParseResourceKind converts a wire string into a ResourceKind.
func ParseResourceKind(s string) (ResourceKind, error) {
	switch s {
	case "water":
		return Water, nil
	case "fertilizer":
		return Fertilizer, nil
	case "equipment":
		return Equipment, nil
	case "labor":
		return Labor, nil
	default:
		return 0, fmt.Errorf("%w: unknown resource kind %q", ErrInvalidRequest, s)
	}
}

// IsTimeSliced reports whether the kind is booked on an hour-granular calendar.
func (k ResourceKind) IsTimeSliced() bool {
	return k == Water || k == Equipment
}

// Priority expresses the urgency of an allocation request.
type Priority int

// PriorityNormal is the zero value so requests that omit a priority pay the
// standard rate.
const (
	PriorityNormal Priority = iota
	PriorityCritical
	PriorityHigh
	PriorityLow
)

// String returns a human-readable representation of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityCritical:
		return "critical"
	case PriorityHigh:
		return "high"
	case PriorityNormal:
		return "normal"
	case PriorityLow:
		return "low"
	default:
		return "unknown"
	}
}

// ParsePriority converts a wire string into a Priority. An empty string maps
// to PriorityNormal.
func ParsePriority(s string) (Priority, error) {
	switch s {
	case "critical":
		return PriorityCritical, nil
	case "high":
		return PriorityHigh, nil
	case "normal", "":
		return PriorityNormal, nil
	case "low":
		return PriorityLow, nil
	default:
		return 0, fmt.Errorf("%w: unknown priority %q", ErrInvalidRequest, s)
	}
}
