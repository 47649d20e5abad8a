package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/coffeehub/smartqueue/core/metrics"
)

func TestPromSinkRecordsOrderEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSink(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}

	evs := []coremetrics.OrderEvent{
		{Kind: coremetrics.EventSubmitted, OrderID: 101, Drink: "latte", Customer: "premium", Priority: 18.3, Timestamp: time.Now()},
		{Kind: coremetrics.EventCompleted, OrderID: 101, Drink: "latte", Customer: "premium", WaitMinutes: 6.5, Timestamp: time.Now()},
	}
	if err := sink.RecordOrderEvents(evs); err != nil {
		t.Fatalf("record events: %v", err)
	}

	got := testutil.ToFloat64(sink.events.WithLabelValues("submitted", "latte", "premium"))
	if got != 1 {
		t.Fatalf("expected 1 submitted event, got %v", got)
	}

	sink.RecordQueueDepth(4)
	if got := testutil.ToFloat64(sink.queueDepth); got != 4 {
		t.Fatalf("expected queue depth 4, got %v", got)
	}
}

func TestPromSinkReregister(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSink(reg); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := NewPromSink(reg); err != nil {
		t.Fatalf("second register should reuse collectors: %v", err)
	}
}

func TestMultiSinkFanout(t *testing.T) {
	reg := prometheus.NewRegistry()
	prom, err := NewPromSink(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	multi := NewMultiSink(prom, coremetrics.NopSink{})

	ev := []coremetrics.OrderEvent{{Kind: coremetrics.EventAssigned, Drink: "mocha", Customer: "regular"}}
	if err := multi.RecordOrderEvents(ev); err != nil {
		t.Fatalf("multi record: %v", err)
	}
	multi.RecordQueueDepth(2)

	if got := testutil.ToFloat64(prom.events.WithLabelValues("assigned", "mocha", "regular")); got != 1 {
		t.Fatalf("expected fanout to prom sink, got %v", got)
	}
}
