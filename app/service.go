// Package app wires the resource pool, planner and negotiation coordinator
// into one service. Each Service owns its own pool set and coordinator, so
// tests can instantiate isolated instances.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/agrinet/allocd/config"
	coremetrics "github.com/agrinet/allocd/core/metrics"
	"github.com/agrinet/allocd/core/negotiation"
	"github.com/agrinet/allocd/core/planner"
	"github.com/agrinet/allocd/core/pool"
	"github.com/agrinet/allocd/core/pricing"
	"github.com/agrinet/allocd/core/scheduler"
	"github.com/agrinet/allocd/infra/logger"
	"github.com/agrinet/allocd/infra/metrics"
	"github.com/agrinet/allocd/infra/notify"
	"github.com/agrinet/allocd/internal/eventbus"
)

// Service orchestrates allocation and negotiation for one resource region.
type Service struct {
	Pool        *pool.Pool
	Planner     *planner.Planner
	Coordinator *negotiation.Coordinator

	cfg      *config.Config
	bus      eventbus.EventBus
	sweeper  *scheduler.Sweeper
	notifier notify.Notifier
	sink     coremetrics.Sink
	log      logger.Logger

	pending *pendingRequests
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	bus := eventbus.New()

	p := pool.New(cfg.Pool, logger.New("pool"))
	policy := pricing.New(cfg.Pricing)
	pl, err := planner.New(p, policy, logger.New("planner"))
	if err != nil {
		return nil, fmt.Errorf("planner: %w", err)
	}
	coord, err := negotiation.NewCoordinator(cfg.Negotiation, policy, bus, logger.New("negotiation"))
	if err != nil {
		return nil, fmt.Errorf("negotiation coordinator: %w", err)
	}

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(nil)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = coremetrics.NewMultiSink(sinks...)
	}

	var notifier notify.Notifier
	if cfg.Notify.Enabled {
		notifier, err = notify.NewMQTTNotifier(cfg.Notify)
		if err != nil {
			return nil, fmt.Errorf("mqtt notifier: %w", err)
		}
	}

	sweeper := scheduler.New(time.Duration(cfg.Sweep.IntervalSeconds)*time.Second, logger.New("sweeper"))
	sweeper.Register("pool-reclaim", func(now time.Time) {
		p.ReclaimExpired(now)
	})
	sweeper.Register("negotiation-expiry", func(time.Time) {
		coord.CleanupExpired()
	})

	return &Service{
		Pool:        p,
		Planner:     pl,
		Coordinator: coord,
		cfg:         cfg,
		bus:         bus,
		sweeper:     sweeper,
		notifier:    notifier,
		sink:        sink,
		log:         logg,
		pending:     newPendingRequests(),
	}, nil
}

// Run starts the maintenance sweep, notification forwarding and metric
// collection, then blocks until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	metrics.StartEventCollector(ctx, s.bus, s.sink)
	if s.notifier != nil {
		notify.StartForwarder(ctx, s.bus, s.notifier, s.log)
	}
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	s.sweeper.Run(ctx)
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if b, ok := s.bus.(*eventbus.Bus); ok && b.Dropped() > 0 {
		s.log.Warnf("event bus dropped %d events", b.Dropped())
	}
	s.bus.Close()
	if s.notifier != nil {
		return s.notifier.Close()
	}
	return nil
}
