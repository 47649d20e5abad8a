package metrics

import coremetrics "github.com/coffeehub/smartqueue/core/metrics"

// MultiSink fans order events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordOrderEvents forwards the events to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordOrderEvents(evs []coremetrics.OrderEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordOrderEvents(evs); err != nil {
			return err
		}
	}
	return nil
}

// RecordQueueDepth forwards the depth to all sinks.
func (m *MultiSink) RecordQueueDepth(depth int) {
	for _, s := range m.Sinks {
		s.RecordQueueDepth(depth)
	}
}
