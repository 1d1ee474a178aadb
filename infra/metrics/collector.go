package metrics

import (
	"context"
	"time"

	"github.com/agrinet/allocd/core/events"
	coremetrics "github.com/agrinet/allocd/core/metrics"
	"github.com/agrinet/allocd/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for
// allocation and session events. It stops when the context is canceled.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.Sink) {
	if bus == nil || sink == nil {
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
				case events.AllocationEvent:
					_ = sink.RecordAllocation(coremetrics.AllocationRecord{
						RequestID:    e.Result.RequestID,
						RequesterID:  e.Request.RequesterID,
						Kind:         e.Request.Kind,
						Quantity:     e.Request.Quantity,
						Status:       e.Result.Status,
						Cost:         e.Result.Cost,
						Efficiency:   e.Result.Efficiency,
						Alternatives: len(e.Result.Alternatives),
						Time:         e.Time,
					})
				case events.SessionEvent:
					if nr, ok := sink.(coremetrics.NegotiationRecorder); ok {
						_ = nr.RecordNegotiation(coremetrics.NegotiationRecord{
							SessionID:  e.SessionID,
							Kind:       e.Kind,
							Status:     e.Status,
							FinalPrice: e.FinalPrice,
							Rounds:     e.Rounds,
							Duration:   e.Duration,
							Time:       time.Now(),
						})
					}
				}
			}
		}
	}()
}
