package notify

import (
	"context"
	"testing"
	"time"

	"github.com/agrinet/allocd/core/events"
	"github.com/agrinet/allocd/core/model"
	"github.com/agrinet/allocd/infra/logger"
	"github.com/agrinet/allocd/internal/eventbus"
)

func TestForwarderDeliversOffers(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	mock := NewMockNotifier()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartForwarder(ctx, bus, mock, logger.NopLogger{})

	bus.Publish(events.OfferEvent{
		SessionID:  "s1",
		OfferID:    "o1",
		SenderID:   "farm-1",
		ReceiverID: "farm-2",
		Kind:       model.Water,
		Quantity:   500,
		TotalPrice: 25,
	})
	bus.Publish(events.AllocationEvent{
		Request: model.AllocationRequest{RequestID: "r1", Kind: model.Water},
		Result:  model.AllocationResult{Status: model.StatusAllocated, RequestID: "r1"},
		Time:    time.Now(),
	})

	deadline := time.After(time.Second)
	for mock.OfferCount() == 0 {
		select {
		case <-deadline:
			t.Fatalf("offer never forwarded")
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
	if mock.Offers[0].ReceiverID != "farm-2" {
		t.Fatalf("unexpected offer: %+v", mock.Offers[0])
	}
}

func TestForwarderNilNotifier(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	// Must not panic or subscribe.
	StartForwarder(context.Background(), bus, nil, logger.NopLogger{})
}
