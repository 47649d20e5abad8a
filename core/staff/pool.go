// Package staff manages the barista pool: the per-tick assignment and
// completion sweeps and the status snapshots exposed to reporting
// collaborators.
package staff

import (
	"strconv"

	"github.com/coffeehub/smartqueue/core/events"
	"github.com/coffeehub/smartqueue/core/logger"
	"github.com/coffeehub/smartqueue/core/model"
	"github.com/coffeehub/smartqueue/core/queue"
	"github.com/coffeehub/smartqueue/internal/eventbus"
)

// Pool drives a fixed set of baristas against the scheduler. The pool does
// not lock: it is driven from the single tick path, and every queue
// interaction goes through the scheduler's own mutex.
type Pool struct {
	baristas []*model.Barista
	sched    *queue.Scheduler
	log      logger.Logger
	bus      eventbus.EventBus
}

// NewPool creates count baristas named "Barista 1..n". Nil logger and bus
// fall back to no-ops on use.
func NewPool(count int, sched *queue.Scheduler, log logger.Logger, bus eventbus.EventBus) *Pool {
	if count <= 0 {
		count = 3
	}
	p := &Pool{sched: sched, log: log, bus: bus}
	for i := 1; i <= count; i++ {
		p.baristas = append(p.baristas, model.NewBarista(i, "Barista "+strconv.Itoa(i)))
	}
	return p
}

// AssignOrders runs the assignment sweep: every idle barista asks the
// scheduler for its next order, with the cross-barista average workload as
// the balancing input.
func (p *Pool) AssignOrders() {
	now := p.sched.Now()
	avg := p.AverageWorkload()
	for _, b := range p.baristas {
		if !b.IsIdle() {
			continue
		}
		next := p.sched.SelectNext(b, avg)
		if next == nil {
			continue
		}
		if err := b.Assign(next, now); err != nil {
			// Unreachable: the sweep only offers orders to idle baristas.
			p.logf("assign %s: %v", b.Name, err)
			continue
		}
		p.publish(events.OrderAssigned{Order: next, Barista: b, At: now})
		p.logf("%s assigned order #%d (%s, %s) priority %.1f",
			b.Name, next.ID, next.Drink.DisplayName(), next.Customer.DisplayName(), next.PriorityScore)
	}
}

// CheckCompleted runs the completion sweep: every busy barista whose
// preparation time has elapsed retires its order, then the assignment sweep
// runs again so freed baristas pick up new work in the same tick.
func (p *Pool) CheckCompleted() {
	now := p.sched.Now()
	for _, b := range p.baristas {
		if b.IsIdle() || b.RemainingMinutes(now) > 0 {
			continue
		}
		done := b.Complete()
		p.sched.CompleteOrder(done)
		p.logf("%s completed order #%d after %.1f min", b.Name, done.ID, done.WaitMinutes(now))
	}
	p.AssignOrders()
}

// CompleteAll force-finishes every in-progress order.
func (p *Pool) CompleteAll() {
	for _, b := range p.baristas {
		if b.IsIdle() {
			continue
		}
		done := b.Complete()
		p.sched.CompleteOrder(done)
	}
}

// AverageWorkload returns the mean cumulative worked minutes.
func (p *Pool) AverageWorkload() float64 {
	total := 0.0
	for _, b := range p.baristas {
		total += b.WorkedMinutes
	}
	return total / float64(len(p.baristas))
}

// Baristas returns the pool members.
func (p *Pool) Baristas() []*model.Barista { return p.baristas }

// Status is a per-barista view for reporting.
type Status struct {
	ID               int     `json:"id"`
	Name             string  `json:"name"`
	Status           string  `json:"status"`
	WorkloadRatio    float64 `json:"workloadRatio"`
	WorkedMinutes    float64 `json:"totalWorkMinutes"`
	OrdersCompleted  int     `json:"ordersCompleted"`
	CurrentOrderID   int     `json:"orderId,omitempty"`
	CurrentDrink     string  `json:"currentOrder,omitempty"`
	CustomerType     string  `json:"customerType,omitempty"`
	RemainingMinutes float64 `json:"timeRemaining"`
}

// StatusSnapshot returns the per-barista view at the current clock.
func (p *Pool) StatusSnapshot() []Status {
	now := p.sched.Now()
	avg := p.AverageWorkload()
	out := make([]Status, 0, len(p.baristas))
	for _, b := range p.baristas {
		st := Status{
			ID:              b.ID,
			Name:            b.Name,
			Status:          b.Status.String(),
			WorkloadRatio:   b.WorkloadRatio(avg),
			WorkedMinutes:   b.WorkedMinutes,
			OrdersCompleted: b.OrdersCompleted,
		}
		if o := b.CurrentOrder; o != nil {
			st.CurrentOrderID = o.ID
			st.CurrentDrink = o.Drink.DisplayName()
			st.CustomerType = o.Customer.DisplayName()
			st.RemainingMinutes = b.RemainingMinutes(now)
		}
		out = append(out, st)
	}
	return out
}

// Stats counts idle versus busy baristas.
type Stats struct {
	Total int `json:"total"`
	Idle  int `json:"free"`
	Busy  int `json:"busy"`
}

// PoolStats returns the idle/busy split.
func (p *Pool) PoolStats() Stats {
	st := Stats{Total: len(p.baristas)}
	for _, b := range p.baristas {
		if b.IsIdle() {
			st.Idle++
		} else {
			st.Busy++
		}
	}
	return st
}

func (p *Pool) logf(format string, args ...any) {
	if p.log != nil {
		p.log.Infof(format, args...)
	}
}

func (p *Pool) publish(e eventbus.Event) {
	if p.bus != nil {
		p.bus.Publish(e)
	}
}
