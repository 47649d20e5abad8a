package model

import (
	"fmt"
	"time"

	"github.com/coffeehub/smartqueue/core/priority"
)

// ComplaintThresholdMinutes is the total time beyond which a served order
// counts as a complaint.
const ComplaintThresholdMinutes = 10.0

// Order is a service request moving through the queue. The priority fields
// are a projection recomputed from the logical clock; everything else is
// fixed at submission except the fairness counter and the completion stamp.
type Order struct {
	ID        int          `json:"id"`
	Drink     DrinkType    `json:"drink"`
	Customer  CustomerType `json:"customerType"`
	CreatedAt time.Time    `json:"orderTime"`

	PriorityScore  float64          `json:"priorityScore"`
	PriorityReason string           `json:"priorityReason"`
	Urgency        priority.Urgency `json:"urgency"`

	// PeopleServedAhead counts how many times a later arrival was dispatched
	// before this order. Monotonically non-decreasing while queued.
	PeopleServedAhead int `json:"peopleServedAhead"`

	// EstimatedWaitMinutes is a display-only projection, not a scheduling
	// input.
	EstimatedWaitMinutes float64 `json:"estimatedWaitMinutes"`

	// CompletedAt, once set, is never cleared.
	CompletedAt *time.Time `json:"completionTime,omitempty"`
}

// WaitMinutes returns the elapsed queue time at the given clock.
func (o *Order) WaitMinutes(now time.Time) float64 {
	return now.Sub(o.CreatedAt).Minutes()
}

// RecalculatePriority refreshes the score, urgency and reason projection
// against the given clock. Safe to call repeatedly; an unchanged clock yields
// an unchanged result.
func (o *Order) RecalculatePriority(now time.Time) {
	res := priority.Score(priority.Input{
		WaitMinutes:       o.WaitMinutes(now),
		PrepMinutes:       o.Drink.PrepMinutes(),
		MaxPrepMinutes:    MaxPrepMinutes(),
		TimeoutMinutes:    o.Customer.TimeoutMinutes(),
		LoyaltyBonus:      o.Customer.LoyaltyBonus(),
		PeopleServedAhead: o.PeopleServedAhead,
		Premium:           o.Customer == Premium,
	})
	o.PriorityScore = res.Score
	o.Urgency = res.Urgency
	o.PriorityReason = res.Reason
}

// MarkSkipped records that another order was dispatched ahead of this one.
func (o *Order) MarkSkipped() {
	o.PeopleServedAhead++
}

// Complete stamps the completion time. The stamp is write-once.
func (o *Order) Complete(now time.Time) {
	if o.CompletedAt != nil {
		return
	}
	t := now
	o.CompletedAt = &t
}

// ExceededTimeout reports whether the order has waited past its customer
// timeout at the given clock.
func (o *Order) ExceededTimeout(now time.Time) bool {
	return o.WaitMinutes(now) >= o.Customer.TimeoutMinutes()
}

// ApproachingTimeout reports whether the order entered the urgency ramp.
func (o *Order) ApproachingTimeout(now time.Time) bool {
	return o.WaitMinutes(now) >= o.Customer.TimeoutMinutes()-2.0
}

// TotalMinutes returns creation-to-completion time, 0 while incomplete.
func (o *Order) TotalMinutes() float64 {
	if o.CompletedAt == nil {
		return 0
	}
	return o.CompletedAt.Sub(o.CreatedAt).Minutes()
}

// IsComplaint reports whether the completed order took long enough to count
// as a complaint.
func (o *Order) IsComplaint() bool {
	return o.CompletedAt != nil && o.TotalMinutes() > ComplaintThresholdMinutes
}

func (o *Order) String() string {
	return fmt.Sprintf("Order #%d: %s (%s) priority %.1f", o.ID, o.Drink.DisplayName(), o.Customer.DisplayName(), o.PriorityScore)
}
