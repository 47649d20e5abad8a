package queue

import (
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/coffeehub/smartqueue/core/events"
	"github.com/coffeehub/smartqueue/core/logger"
	"github.com/coffeehub/smartqueue/core/metrics"
	"github.com/coffeehub/smartqueue/core/model"
	"github.com/coffeehub/smartqueue/internal/eventbus"
)

// Prep-time thresholds of the workload override: overloaded baristas get
// quick orders, underutilized ones get complex orders.
const (
	quickPrepMinutes   = 3.0
	complexPrepMinutes = 4.0
)

// Skips beyond this count constitute a fairness violation.
const fairnessSkipAllowance = 3

// Order ids start above this base.
const orderIDBase = 100

// Scheduler owns the pending order collection, the retired history and the
// logical clock. All mutations are serialized behind a single mutex; a
// recompute-sort-remove sequence is one atomic unit.
type Scheduler struct {
	mu  sync.Mutex
	cfg Config

	log  logger.Logger
	bus  eventbus.EventBus
	sink metrics.MetricsSink

	pending   []*model.Order
	completed []*model.Order
	mode      model.QueueMode
	now       time.Time

	nextID      int
	rng         *rand.Rand
	autoArrival bool

	totalOrders        int
	timeoutOrders      int
	fairnessViolations int
}

// New creates a Scheduler. Nil logger, bus or sink fall back to no-ops.
func New(cfg Config, log logger.Logger, bus eventbus.EventBus, sink metrics.MetricsSink) *Scheduler {
	cfg.SetDefaults()
	if log == nil {
		log = nopLogger{}
	}
	if bus == nil {
		bus = nopBus{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	mode, err := model.ParseQueueMode(cfg.DefaultMode)
	if err != nil {
		mode = model.ModeSmart
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Scheduler{
		cfg:         cfg,
		log:         log,
		bus:         bus,
		sink:        sink,
		mode:        mode,
		now:         time.Now(),
		nextID:      orderIDBase,
		rng:         rand.New(rand.NewSource(seed)),
		autoArrival: cfg.AutoArrival,
	}
}

// Submit enqueues a new order for the given drink and customer tier and
// computes its initial priority. Enqueue is O(1).
func (s *Scheduler) Submit(drink model.DrinkType, customer model.CustomerType) *model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitLocked(drink, customer)
}

// SubmitAnonymous enqueues an order for a customer of unknown tier, drawn
// from the 20/60/20 premium/regular/new split.
func (s *Scheduler) SubmitAnonymous(drink model.DrinkType) *model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitLocked(drink, s.randomCustomerLocked())
}

// SubmitRandom enqueues an order with a uniformly random drink and a
// customer tier drawn from the 20/60/20 premium/regular/new split.
func (s *Scheduler) SubmitRandom() *model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitRandomLocked()
}

// SimulateRush enqueues a burst of 5 to 8 random orders.
func (s *Scheduler) SimulateRush() []*model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 5 + s.rng.Intn(4)
	burst := make([]*model.Order, 0, count)
	for i := 0; i < count; i++ {
		burst = append(burst, s.submitRandomLocked())
	}
	s.bus.Publish(events.RushSimulated{Count: count, At: s.now})
	s.log.Infof("rush burst: %d orders enqueued", count)
	return burst
}

func (s *Scheduler) submitLocked(drink model.DrinkType, customer model.CustomerType) *model.Order {
	s.nextID++
	o := &model.Order{
		ID:        s.nextID,
		Drink:     drink,
		Customer:  customer,
		CreatedAt: s.now,
	}
	o.RecalculatePriority(s.now)
	s.pending = append(s.pending, o)
	s.totalOrders++

	s.bus.Publish(events.OrderSubmitted{Order: o, At: s.now})
	if err := s.sink.RecordOrderEvents([]metrics.OrderEvent{{
		Kind:      metrics.EventSubmitted,
		OrderID:   o.ID,
		Drink:     o.Drink.String(),
		Customer:  o.Customer.String(),
		Priority:  o.PriorityScore,
		Timestamp: s.now,
	}}); err != nil {
		s.log.Errorf("record submit: %v", err)
	}
	s.sink.RecordQueueDepth(len(s.pending))
	s.log.Debugw("order submitted", map[string]any{
		"order_id": o.ID,
		"drink":    o.Drink.String(),
		"customer": o.Customer.String(),
		"priority": o.PriorityScore,
	})
	return o
}

func (s *Scheduler) submitRandomLocked() *model.Order {
	drinks := model.DrinkTypes()
	drink := drinks[s.rng.Intn(len(drinks))]
	return s.submitLocked(drink, s.randomCustomerLocked())
}

func (s *Scheduler) randomCustomerLocked() model.CustomerType {
	r := s.rng.Float64()
	switch {
	case r < 0.2:
		return model.Premium
	case r < 0.8:
		return model.Regular
	default:
		return model.NewCustomer
	}
}

// SelectNext consumes one pending order for the given idle barista, or
// returns nil if the queue is empty. Under FIFO the head is popped without
// rescoring; under SMART every pending order is rescored against the current
// clock, the queue is sorted, the workload override applies and fairness
// skips are recorded.
func (s *Scheduler) SelectNext(b *model.Barista, averageWorkMinutes float64) *model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectNextLocked(b, averageWorkMinutes)
}

func (s *Scheduler) selectNextLocked(b *model.Barista, averageWorkMinutes float64) *model.Order {
	if len(s.pending) == 0 {
		return nil
	}

	if s.mode == model.ModeFIFO {
		o := s.pending[0]
		s.pending = s.pending[1:]
		s.recordAssignedLocked(o, b)
		s.sink.RecordQueueDepth(len(s.pending))
		return o
	}

	// Stale scores are a correctness bug: rescore everything first.
	s.recalculateAllLocked()
	s.estimateWaitsLocked()
	sorted := s.sortedByScoreLocked()

	selected := sorted[0]
	ratio := b.WorkloadRatio(averageWorkMinutes)
	switch {
	case ratio > model.OverloadRatio:
		for _, o := range sorted {
			if o.Drink.PrepMinutes() <= quickPrepMinutes {
				selected = o
				break
			}
		}
		s.log.Debugf("%s overloaded (%.1fx), quick order preferred", b.Name, ratio)
	case ratio < model.UnderutilizedRatio:
		for _, o := range sorted {
			if o.Drink.PrepMinutes() >= complexPrepMinutes {
				selected = o
				break
			}
		}
		s.log.Debugf("%s underutilized (%.1fx), complex order preferred", b.Name, ratio)
	}

	// Every earlier arrival still pending was skipped once more.
	for _, o := range s.pending {
		if o.ID >= selected.ID {
			continue
		}
		o.MarkSkipped()
		if o.PeopleServedAhead == fairnessSkipAllowance+1 {
			s.fairnessViolations++
			s.log.Warnf("fairness violation: order #%d skipped %d times", o.ID, o.PeopleServedAhead)
		}
	}

	s.removeLocked(selected)
	s.recordAssignedLocked(selected, b)
	s.sink.RecordQueueDepth(len(s.pending))
	return selected
}

func (s *Scheduler) recordAssignedLocked(o *model.Order, b *model.Barista) {
	if err := s.sink.RecordOrderEvents([]metrics.OrderEvent{{
		Kind:        metrics.EventAssigned,
		OrderID:     o.ID,
		Drink:       o.Drink.String(),
		Customer:    o.Customer.String(),
		Barista:     b.Name,
		WaitMinutes: o.WaitMinutes(s.now),
		Priority:    o.PriorityScore,
		Timestamp:   s.now,
	}}); err != nil {
		s.log.Errorf("record assignment: %v", err)
	}
}

func (s *Scheduler) sortedByScoreLocked() []*model.Order {
	sorted := make([]*model.Order, len(s.pending))
	copy(sorted, s.pending)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].PriorityScore != sorted[j].PriorityScore {
			return sorted[i].PriorityScore > sorted[j].PriorityScore
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

func (s *Scheduler) removeLocked(target *model.Order) {
	for i, o := range s.pending {
		if o == target {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}

// RecalculateAll rescores every pending order against the current clock.
func (s *Scheduler) RecalculateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recalculateAllLocked()
}

func (s *Scheduler) recalculateAllLocked() {
	for _, o := range s.pending {
		o.RecalculatePriority(s.now)
	}
}

func (s *Scheduler) estimateWaitsLocked() {
	sorted := s.sortedByScoreLocked()
	cumulative := 0.0
	for _, o := range sorted {
		cumulative += o.Drink.PrepMinutes()
		o.EstimatedWaitMinutes = cumulative / float64(s.cfg.Baristas)
	}
}

// AdvanceClock moves the logical clock forward by the given minutes,
// rescoring all pending orders and, with auto-arrival enabled, generating
// synthetic arrivals minute by minute.
func (s *Scheduler) AdvanceClock(minutes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = s.now.Add(time.Duration(minutes) * time.Minute)
	s.recalculateAllLocked()
	if s.autoArrival {
		s.generateArrivalsLocked(minutes)
	}
	s.bus.Publish(events.ClockAdvanced{Minutes: minutes, Now: s.now})
}

// generateArrivalsLocked draws a per-minute arrival count from
// round(-ln(1-U)*lambda), a cheap approximation of a Poisson draw with
// mean lambda.
func (s *Scheduler) generateArrivalsLocked(minutes int) {
	for i := 0; i < minutes; i++ {
		count := int(math.Round(-math.Log(1-s.rng.Float64()) * s.cfg.Lambda))
		for j := 0; j < count; j++ {
			s.submitRandomLocked()
		}
		if count > 0 {
			s.log.Debugf("auto arrival: %d customers in minute %d", count, i+1)
		}
	}
}

// CompleteOrder stamps the completion time at the current clock and moves
// the order to the retired history. Irreversible.
func (s *Scheduler) CompleteOrder(o *model.Order) {
	if o == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	timedOut := o.ExceededTimeout(s.now)
	o.Complete(s.now)
	if timedOut {
		s.timeoutOrders++
	}
	s.completed = append(s.completed, o)

	s.bus.Publish(events.OrderCompleted{Order: o, TimedOut: timedOut, At: s.now})
	kind := metrics.EventCompleted
	if timedOut {
		kind = metrics.EventTimedOut
	}
	if err := s.sink.RecordOrderEvents([]metrics.OrderEvent{{
		Kind:        kind,
		OrderID:     o.ID,
		Drink:       o.Drink.String(),
		Customer:    o.Customer.String(),
		WaitMinutes: o.TotalMinutes(),
		Priority:    o.PriorityScore,
		Timestamp:   s.now,
	}}); err != nil {
		s.log.Errorf("record completion: %v", err)
	}
}

// SetMode switches the active policy.
func (s *Scheduler) SetMode(mode model.QueueMode) {
	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()
}

// Mode returns the active policy.
func (s *Scheduler) Mode() model.QueueMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetAutoArrival toggles synthetic arrival generation.
func (s *Scheduler) SetAutoArrival(enabled bool) {
	s.mu.Lock()
	s.autoArrival = enabled
	s.mu.Unlock()
}

// AutoArrival reports whether synthetic arrivals are enabled.
func (s *Scheduler) AutoArrival() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autoArrival
}

// Now returns the logical clock.
func (s *Scheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// QueueLen returns the pending order count.
func (s *Scheduler) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Reset wipes all scheduler state: pending and retired collections, all
// counters, the clock, the policy and the auto-arrival flag. The only
// supported cold start.
func (s *Scheduler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
	s.completed = nil
	s.totalOrders = 0
	s.timeoutOrders = 0
	s.fairnessViolations = 0
	s.nextID = orderIDBase
	s.now = time.Now()
	s.mode = model.ModeSmart
	s.autoArrival = false
	s.sink.RecordQueueDepth(0)
	s.log.Infof("scheduler reset")
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

type nopBus struct{}

func (nopBus) Publish(eventbus.Event)            {}
func (nopBus) Subscribe() <-chan eventbus.Event  { return nil }
func (nopBus) Unsubscribe(<-chan eventbus.Event) {}
func (nopBus) Close()                            {}
