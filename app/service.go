package app

import (
	"context"
	"fmt"
	"time"

	"github.com/coffeehub/smartqueue/config"
	coremetrics "github.com/coffeehub/smartqueue/core/metrics"
	"github.com/coffeehub/smartqueue/core/queue"
	"github.com/coffeehub/smartqueue/core/staff"
	"github.com/coffeehub/smartqueue/infra/logger"
	"github.com/coffeehub/smartqueue/infra/metrics"
	"github.com/coffeehub/smartqueue/internal/eventbus"
)

// Service orchestrates the order scheduler and the barista pool.
type Service struct {
	Scheduler *queue.Scheduler
	Pool      *staff.Pool

	bus         eventbus.EventBus
	log         logger.Logger
	influx      *metrics.InfluxSink
	promEnabled bool
	promAddr    string
	tick        time.Duration
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logger.Configure(cfg.Logging.Level, cfg.Logging.Console)
	logg := logger.New("service")

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(nil)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	var influx *metrics.InfluxSink
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(cfg.Metrics)
		if is, ok := sink.(*metrics.InfluxSink); ok {
			influx = is
		}
		sinks = append(sinks, sink)
	}
	var sink coremetrics.MetricsSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	bus := eventbus.New()
	queueCfg := cfg.Queue
	// The wait projection divides by the same staff count the pool serves
	// with.
	queueCfg.Baristas = cfg.Shop.Baristas
	sched := queue.New(queueCfg, logger.New("queue"), bus, sink)
	pool := staff.NewPool(cfg.Shop.Baristas, sched, logger.New("staff"), bus)

	return &Service{
		Scheduler:   sched,
		Pool:        pool,
		bus:         bus,
		log:         logg,
		influx:      influx,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promAddr:    cfg.Metrics.PrometheusAddr,
		tick:        time.Duration(cfg.Shop.TickSeconds) * time.Second,
	}, nil
}

// Run advances the logical clock on each tick and blocks until the context
// is cancelled. Completed orders are retired and idle baristas picked up work
// before the next tick.
func (s *Service) Run(ctx context.Context) error {
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	s.log.Infof("service started, tick interval %s", s.tick)
	s.Pool.AssignOrders()

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Infof("service stopping")
			return nil
		case <-ticker.C:
			s.Scheduler.AdvanceClock(1)
			s.Pool.CheckCompleted()
			snap := s.Scheduler.Metrics()
			s.log.Debugw("tick", map[string]any{
				"pending":   snap.QueueLength,
				"completed": snap.CompletedOrders,
				"mode":      s.Scheduler.Mode().String(),
			})
		}
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if s.influx != nil {
		s.influx.Close()
	}
	return nil
}
