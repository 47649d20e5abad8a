package model

import (
	"fmt"
	"strings"
)

// QueueMode selects the active scheduling policy.
type QueueMode int

const (
	// ModeFIFO serves orders in strict arrival order.
	ModeFIFO QueueMode = iota
	// ModeSmart serves orders by the weighted priority score with
	// workload-aware barista selection.
	ModeSmart
)

// ParseQueueMode resolves a caller-supplied policy name.
func ParseQueueMode(name string) (QueueMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fifo":
		return ModeFIFO, nil
	case "smart":
		return ModeSmart, nil
	default:
		return 0, fmt.Errorf("unknown queue mode %q", name)
	}
}

func (m QueueMode) String() string {
	if m == ModeFIFO {
		return "fifo"
	}
	return "smart"
}

// MarshalText serializes the mode as its lowercase name.
func (m QueueMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }
