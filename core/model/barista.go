package model

import (
	"errors"
	"time"
)

// Workload ratio thresholds for the dispatch override.
const (
	OverloadRatio      = 1.2
	UnderutilizedRatio = 0.8
)

// ErrBaristaBusy is returned when an order is assigned to a barista that
// already holds one. The assignment sweep only targets idle baristas, so
// hitting this is a programming error on the caller side.
var ErrBaristaBusy = errors.New("barista already busy")

// BaristaStatus is the two-state lifecycle of a barista.
type BaristaStatus int

const (
	StatusIdle BaristaStatus = iota
	StatusBusy
)

func (s BaristaStatus) String() string {
	if s == StatusBusy {
		return "busy"
	}
	return "idle"
}

// MarshalText serializes the status as its lowercase name.
func (s BaristaStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Barista holds per-server state. A barista owns at most one order at a
// time; CurrentOrder and Status flip together.
type Barista struct {
	ID              int           `json:"id"`
	Name            string        `json:"name"`
	Status          BaristaStatus `json:"status"`
	CurrentOrder    *Order        `json:"currentOrder,omitempty"`
	TaskStart       time.Time     `json:"taskStart"`
	WorkedMinutes   float64       `json:"totalWorkMinutes"`
	OrdersCompleted int           `json:"ordersCompleted"`
}

// NewBarista creates an idle barista.
func NewBarista(id int, name string) *Barista {
	return &Barista{ID: id, Name: name, Status: StatusIdle}
}

// Assign hands the order to the barista and starts the preparation clock.
func (b *Barista) Assign(o *Order, now time.Time) error {
	if b.Status == StatusBusy {
		return ErrBaristaBusy
	}
	b.CurrentOrder = o
	b.Status = StatusBusy
	b.TaskStart = now
	return nil
}

// Complete accumulates the worked minutes, frees the barista and returns the
// finished order. Returns nil when idle.
func (b *Barista) Complete() *Order {
	done := b.CurrentOrder
	if done != nil {
		b.WorkedMinutes += done.Drink.PrepMinutes()
		b.OrdersCompleted++
	}
	b.CurrentOrder = nil
	b.Status = StatusIdle
	b.TaskStart = time.Time{}
	return done
}

// RemainingMinutes returns the preparation time left at the given clock,
// floored at zero.
func (b *Barista) RemainingMinutes(now time.Time) float64 {
	if b.CurrentOrder == nil {
		return 0
	}
	elapsed := now.Sub(b.TaskStart).Minutes()
	remaining := b.CurrentOrder.Drink.PrepMinutes() - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsIdle reports whether the barista can take a new order.
func (b *Barista) IsIdle() bool { return b.Status == StatusIdle }

// WorkloadRatio compares this barista's cumulative work against the
// cross-barista average. A zero average yields the neutral ratio 1.0.
func (b *Barista) WorkloadRatio(averageWorkMinutes float64) float64 {
	if averageWorkMinutes == 0 {
		return 1.0
	}
	return b.WorkedMinutes / averageWorkMinutes
}

// IsOverloaded reports whether the barista carries over 1.2x the average.
func (b *Barista) IsOverloaded(averageWorkMinutes float64) bool {
	return b.WorkloadRatio(averageWorkMinutes) > OverloadRatio
}

// IsUnderutilized reports whether the barista carries under 0.8x the average.
func (b *Barista) IsUnderutilized(averageWorkMinutes float64) bool {
	return b.WorkloadRatio(averageWorkMinutes) < UnderutilizedRatio
}
