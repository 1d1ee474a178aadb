package notify

import (
	"sync"

	"github.com/agrinet/allocd/core/events"
)

// MockNotifier records notifications for tests.
type MockNotifier struct {
	mu          sync.Mutex
	Offers      []events.OfferEvent
	Allocations []events.AllocationEvent
}

// NewMockNotifier creates an empty MockNotifier.
func NewMockNotifier() *MockNotifier { return &MockNotifier{} }

func (m *MockNotifier) NotifyOffer(ev events.OfferEvent) error {
	m.mu.Lock()
	m.Offers = append(m.Offers, ev)
	m.mu.Unlock()
	return nil
}

func (m *MockNotifier) NotifyAllocation(ev events.AllocationEvent) error {
	m.mu.Lock()
	m.Allocations = append(m.Allocations, ev)
	m.mu.Unlock()
	return nil
}

func (m *MockNotifier) Close() error { return nil }

// OfferCount returns the number of offer notifications recorded.
func (m *MockNotifier) OfferCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Offers)
}
