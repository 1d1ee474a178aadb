package notify

import (
	"context"

	"github.com/agrinet/allocd/core/events"
	"github.com/agrinet/allocd/infra/logger"
	"github.com/agrinet/allocd/internal/eventbus"
)

// StartForwarder subscribes to the event bus and forwards offer and
// allocation events to the notifier until the context is canceled.
func StartForwarder(ctx context.Context, bus eventbus.EventBus, n Notifier, log logger.Logger) {
	if bus == nil || n == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case events.OfferEvent:
					if err := n.NotifyOffer(e); err != nil {
						log.Errorf("offer notification: %v", err)
					}
				case events.AllocationEvent:
					if err := n.NotifyAllocation(e); err != nil {
						log.Errorf("allocation notification: %v", err)
					}
				}
			}
		}
	}()
}
