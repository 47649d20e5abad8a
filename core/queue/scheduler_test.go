package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coffeehub/smartqueue/core/metrics"
	"github.com/coffeehub/smartqueue/core/model"
)

type captureSink struct {
	events []metrics.OrderEvent
}

func (c *captureSink) RecordOrderEvents(evs []metrics.OrderEvent) error {
	c.events = append(c.events, evs...)
	return nil
}

func (c *captureSink) RecordQueueDepth(int) {}

func (c *captureSink) byKind(kind metrics.OrderEventKind) []metrics.OrderEvent {
	var out []metrics.OrderEvent
	for _, e := range c.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	return New(Config{Seed: 42}, nil, nil, nil)
}

func idleBarista(id int) *model.Barista {
	return model.NewBarista(id, "Barista")
}

func TestSubmitAssignsMonotonicIDs(t *testing.T) {
	s := newTestScheduler(t)
	a := s.Submit(model.Espresso, model.Regular)
	b := s.Submit(model.Latte, model.Premium)
	assert.Equal(t, 101, a.ID)
	assert.Equal(t, 102, b.ID)
	assert.Equal(t, 2, s.QueueLen())
}

func TestSubmitAnonymousDrawsCustomerTier(t *testing.T) {
	s := newTestScheduler(t)
	o := s.SubmitAnonymous(model.Latte)
	assert.Equal(t, model.Latte, o.Drink)
	assert.True(t, o.Customer == model.Premium || o.Customer == model.Regular || o.Customer == model.NewCustomer)
}

func TestFIFOServesArrivalOrder(t *testing.T) {
	s := newTestScheduler(t)
	s.SetMode(model.ModeFIFO)
	first := s.Submit(model.Mocha, model.Regular)
	second := s.Submit(model.ColdBrew, model.Premium)

	b := idleBarista(1)
	assert.Same(t, first, s.SelectNext(b, 0))
	assert.Same(t, second, s.SelectNext(b, 0))
	assert.Nil(t, s.SelectNext(b, 0), "empty queue yields no order")
	assert.Zero(t, second.PeopleServedAhead, "FIFO never skips")
}

func TestSmartSelectsTopScoreForBalancedBarista(t *testing.T) {
	s := newTestScheduler(t)
	low := s.Submit(model.Mocha, model.Regular)
	high := s.Submit(model.ColdBrew, model.Premium)

	selected := s.SelectNext(idleBarista(1), 0)
	require.Same(t, high, selected)
	assert.Equal(t, 1, low.PeopleServedAhead, "earlier arrival was skipped once")
}

func TestSmartSkipCountsOnlyEarlierArrivals(t *testing.T) {
	s := newTestScheduler(t)
	older := s.Submit(model.Mocha, model.Regular)
	winner := s.Submit(model.ColdBrew, model.Premium)
	younger := s.Submit(model.Mocha, model.Regular)

	selected := s.SelectNext(idleBarista(1), 0)
	require.Same(t, winner, selected)
	assert.Equal(t, 1, older.PeopleServedAhead)
	assert.Zero(t, younger.PeopleServedAhead, "later arrivals are not skipped")
}

func TestOverloadedBaristaGetsQuickOrder(t *testing.T) {
	s := newTestScheduler(t)
	slow := s.Submit(model.Mocha, model.Premium)
	s.AdvanceClock(10)
	quick := s.Submit(model.ColdBrew, model.Regular)

	// The 10-minute-old premium mocha outranks the fresh cold brew.
	s.RecalculateAll()
	assert.Greater(t, slow.PriorityScore, quick.PriorityScore)

	b := idleBarista(1)
	b.WorkedMinutes = 13 // 1.3x the average of 10
	selected := s.SelectNext(b, 10)
	assert.Same(t, quick, selected, "overloaded barista takes the quick order")
}

func TestUnderutilizedBaristaGetsComplexOrder(t *testing.T) {
	s := newTestScheduler(t)
	quick := s.Submit(model.ColdBrew, model.Regular)
	s.AdvanceClock(5)
	slow := s.Submit(model.Mocha, model.Premium)

	s.RecalculateAll()
	assert.Greater(t, quick.PriorityScore, slow.PriorityScore)

	b := idleBarista(1)
	b.WorkedMinutes = 5 // 0.5x the average of 10
	selected := s.SelectNext(b, 10)
	assert.Same(t, slow, selected, "underutilized barista takes the complex order")
}

func TestOverrideFallsBackToTopScore(t *testing.T) {
	s := newTestScheduler(t)
	a := s.Submit(model.Mocha, model.Premium)
	s.Submit(model.Latte, model.Regular)

	// No pending order preps within 3 minutes, so the overloaded barista
	// falls back to the top-scored one.
	b := idleBarista(1)
	b.WorkedMinutes = 20
	selected := s.SelectNext(b, 10)
	assert.Same(t, a, selected)
}

func TestFairnessViolationCountedOncePerOrder(t *testing.T) {
	s := newTestScheduler(t)
	victim := s.Submit(model.Mocha, model.Regular)

	b := idleBarista(1)
	for i := 0; i < 5; i++ {
		w := s.Submit(model.ColdBrew, model.Premium)
		selected := s.SelectNext(b, 0)
		require.Same(t, w, selected)
	}
	assert.Equal(t, 5, victim.PeopleServedAhead)

	snap := s.Metrics()
	// 6 submissions, one violation when the victim's skip count crossed 3.
	assert.InDelta(t, 100.0/6.0, snap.FairnessViolationRate, 1e-9)
}

func TestEstimatedWaitProjection(t *testing.T) {
	s := newTestScheduler(t)
	s.Submit(model.Espresso, model.Regular)
	s.Submit(model.Espresso, model.Regular)

	orders := s.PendingOrders()
	require.Len(t, orders, 2)
	assert.InDelta(t, 2.0/3.0, orders[0].EstimatedWaitMinutes, 1e-9)
	assert.InDelta(t, 4.0/3.0, orders[1].EstimatedWaitMinutes, 1e-9)
}

func TestAdvanceClockRecalculates(t *testing.T) {
	s := newTestScheduler(t)
	o := s.Submit(model.Latte, model.Regular)
	initial := o.PriorityScore
	s.AdvanceClock(6)
	assert.Greater(t, o.PriorityScore, initial, "waiting raises the score")
}

func TestAutoArrivalIsDeterministicPerSeed(t *testing.T) {
	a := New(Config{Seed: 7, AutoArrival: true}, nil, nil, nil)
	b := New(Config{Seed: 7, AutoArrival: true}, nil, nil, nil)
	a.AdvanceClock(20)
	b.AdvanceClock(20)
	assert.Equal(t, a.QueueLen(), b.QueueLen())
	assert.Equal(t, a.Metrics().TotalOrders, b.Metrics().TotalOrders)
}

func TestSelectNextRecordsAssignment(t *testing.T) {
	sink := &captureSink{}
	s := New(Config{Seed: 42}, nil, nil, sink)
	o := s.Submit(model.Latte, model.Premium)

	b := idleBarista(1)
	require.Same(t, o, s.SelectNext(b, 0))

	assigned := sink.byKind(metrics.EventAssigned)
	require.Len(t, assigned, 1)
	assert.Equal(t, o.ID, assigned[0].OrderID)
	assert.Equal(t, "latte", assigned[0].Drink)
	assert.Equal(t, b.Name, assigned[0].Barista)

	// FIFO pops record the assignment too.
	s.SetMode(model.ModeFIFO)
	s.Submit(model.Espresso, model.Regular)
	s.SelectNext(b, 0)
	assert.Len(t, sink.byKind(metrics.EventAssigned), 2)
}

func TestCompleteOrderTracksTimeouts(t *testing.T) {
	s := newTestScheduler(t)
	o := s.Submit(model.Espresso, model.Premium)
	s.AdvanceClock(11)
	s.CompleteOrder(o)

	require.NotNil(t, o.CompletedAt)
	snap := s.Metrics()
	assert.Equal(t, 1, snap.CompletedOrders)
	assert.InDelta(t, 100.0, snap.TimeoutRate, 1e-9)
	assert.InDelta(t, 11.0, snap.AvgWaitMinutes, 1e-9)
	assert.InDelta(t, 11.0, snap.MaxWaitMinutes, 1e-9)
}

func TestResetRestoresColdStart(t *testing.T) {
	s := newTestScheduler(t)
	s.SetMode(model.ModeFIFO)
	s.SetAutoArrival(true)
	o := s.Submit(model.Mocha, model.Regular)
	s.CompleteOrder(o)
	s.Submit(model.Latte, model.Premium)

	s.Reset()

	snap := s.Metrics()
	assert.Zero(t, snap.QueueLength)
	assert.Zero(t, snap.CompletedOrders)
	assert.Zero(t, snap.TotalOrders)
	assert.Zero(t, snap.TimeoutRate)
	assert.Zero(t, snap.FairnessViolationRate)
	assert.Equal(t, model.ModeSmart, snap.Mode)
	assert.False(t, snap.AutoArrival)

	next := s.Submit(model.Espresso, model.Regular)
	assert.Equal(t, 101, next.ID, "id sequence restarts")
}
