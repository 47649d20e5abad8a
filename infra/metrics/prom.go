package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/coffeehub/smartqueue/core/metrics"
)

// PromSink records order lifecycle events in Prometheus metrics.
type PromSink struct {
	events     *prometheus.CounterVec
	wait       *prometheus.HistogramVec
	queueDepth prometheus.Gauge
}

// NewPromSink registers the order metrics on the provided registerer. If reg
// is nil, the default registerer is used. Collectors that are already
// registered are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "queue_order_events_total",
		Help: "Total number of order lifecycle events",
	}, []string{"event", "drink", "customer"})
	wait := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "queue_order_wait_minutes",
		Help:    "Order wait time in minutes at each lifecycle event",
		Buckets: []float64{1, 2, 3, 5, 8, 10, 15, 30},
	}, []string{"event"})
	queueDepth := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "queue_pending_orders",
		Help: "Number of orders currently pending",
	})

	if err := reg.Register(events); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			events = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(wait); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			wait = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(queueDepth); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			queueDepth = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{events: events, wait: wait, queueDepth: queueDepth}, nil
}

// RecordOrderEvents increments the counters for each event.
func (s *PromSink) RecordOrderEvents(evs []coremetrics.OrderEvent) error {
	for _, e := range evs {
		s.events.WithLabelValues(string(e.Kind), e.Drink, e.Customer).Inc()
		s.wait.WithLabelValues(string(e.Kind)).Observe(e.WaitMinutes)
	}
	return nil
}

// RecordQueueDepth sets the pending-orders gauge.
func (s *PromSink) RecordQueueDepth(depth int) {
	s.queueDepth.Set(float64(depth))
}
