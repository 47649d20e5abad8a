// Package metrics defines the sink contract used to record order lifecycle
// events for observability. Implementations live in infra/metrics.
package metrics

import "time"

// OrderEventKind names the lifecycle transition being recorded.
type OrderEventKind string

const (
	EventSubmitted OrderEventKind = "submitted"
	EventAssigned  OrderEventKind = "assigned"
	EventCompleted OrderEventKind = "completed"
	EventTimedOut  OrderEventKind = "timed_out"
)

// OrderEvent is a single recorded lifecycle transition.
type OrderEvent struct {
	Kind        OrderEventKind
	OrderID     int
	Drink       string
	Customer    string
	Barista     string
	WaitMinutes float64
	Priority    float64
	Timestamp   time.Time
}

// MetricsSink records order events and queue depth for observability
// purposes.
type MetricsSink interface {
	RecordOrderEvents(events []OrderEvent) error
	RecordQueueDepth(depth int)
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordOrderEvents([]OrderEvent) error { return nil }
func (NopSink) RecordQueueDepth(int)                 {}
