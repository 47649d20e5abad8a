// Package events defines the order lifecycle events emitted on the event bus.
//
// Available event types:
//   - OrderSubmitted: new order entered the pending queue
//   - OrderAssigned: an idle barista picked up an order
//   - OrderCompleted: a barista finished an order
//   - ClockAdvanced: the logical clock moved forward
//   - RushSimulated: a burst of random orders was enqueued
package events

import (
	"time"

	"github.com/coffeehub/smartqueue/core/model"
)

// OrderSubmitted is published when an order enters the pending queue.
type OrderSubmitted struct {
	Order *model.Order
	At    time.Time
}

// OrderAssigned is published when a barista picks up an order.
type OrderAssigned struct {
	Order   *model.Order
	Barista *model.Barista
	At      time.Time
}

// OrderCompleted is published when an order is retired. TimedOut marks
// orders that waited past their customer timeout before completion.
type OrderCompleted struct {
	Order    *model.Order
	TimedOut bool
	At       time.Time
}

// ClockAdvanced is published after the logical clock moves forward.
type ClockAdvanced struct {
	Minutes int
	Now     time.Time
}

// RushSimulated is published after a rush burst is enqueued.
type RushSimulated struct {
	Count int
	At    time.Time
}
