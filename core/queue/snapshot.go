package queue

import "github.com/coffeehub/smartqueue/core/model"

// Snapshot aggregates scheduler counters for reporting collaborators.
type Snapshot struct {
	AvgWaitMinutes        float64         `json:"avgWaitTime"`
	MaxWaitMinutes        float64         `json:"maxWaitTime"`
	TimeoutRate           float64         `json:"timeoutRate"`
	FairnessViolationRate float64         `json:"fairnessViolationRate"`
	QueueLength           int             `json:"queueLength"`
	CompletedOrders       int             `json:"completedOrders"`
	TotalOrders           int             `json:"totalOrders"`
	Mode                  model.QueueMode `json:"currentMode"`
	AutoArrival           bool            `json:"autoArrivalEnabled"`
}

// PendingOrders returns the queue in display order: arrival order under
// FIFO, score-descending under SMART. Scores and estimated waits are
// refreshed first.
func (s *Scheduler) PendingOrders() []*model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recalculateAllLocked()
	s.estimateWaitsLocked()
	if s.mode == model.ModeFIFO {
		out := make([]*model.Order, len(s.pending))
		copy(out, s.pending)
		return out
	}
	return s.sortedByScoreLocked()
}

// CompletedOrders returns the retired history in completion order.
func (s *Scheduler) CompletedOrders() []*model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Order, len(s.completed))
	copy(out, s.completed)
	return out
}

// Metrics returns the aggregate counters. Rates default to 0 when no orders
// exist; waits aggregate creation-to-completion time over retired orders.
func (s *Scheduler) Metrics() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		QueueLength:     len(s.pending),
		CompletedOrders: len(s.completed),
		TotalOrders:     s.totalOrders,
		Mode:            s.mode,
		AutoArrival:     s.autoArrival,
	}
	if len(s.completed) > 0 {
		total := 0.0
		for _, o := range s.completed {
			w := o.TotalMinutes()
			total += w
			if w > snap.MaxWaitMinutes {
				snap.MaxWaitMinutes = w
			}
		}
		snap.AvgWaitMinutes = total / float64(len(s.completed))
	}
	if s.totalOrders > 0 {
		snap.TimeoutRate = float64(s.timeoutOrders) * 100 / float64(s.totalOrders)
		snap.FairnessViolationRate = float64(s.fairnessViolations) * 100 / float64(s.totalOrders)
	}
	return snap
}
