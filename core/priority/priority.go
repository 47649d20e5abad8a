// Package priority implements the weighted scoring formula used to order the
// pending queue. Scoring is a pure function of the order attributes, the wait
// so far and the fairness skip counter, so callers can recompute it on every
// tick without side effects.
package priority

import (
	"fmt"
	"math"
)

// Weights and thresholds of the 40/25/10/25 formula.
const (
	waitWeight       = 40.0
	complexityWeight = 25.0
	loyaltyWeight    = 10.0
	urgencyWeight    = 25.0

	// Wait component saturates once an order has waited this long.
	waitCapMinutes = 10.0
	// Urgency ramps from 0 to full weight over the final window before the
	// customer timeout.
	urgencyWindowMinutes = 2.0

	// Skips beyond this count start costing points.
	fairnessFreeSkips      = 3
	fairnessPenaltyPerSkip = 2.0

	// Rush-simulation emergency boost, applied beyond this wait.
	emergencyBoostMinutes = 8.0
	emergencyBoostPoints  = 50.0

	// MaxScore caps live scores; MaxBoostedScore caps rush-simulation scores,
	// where the emergency boost can push past 100.
	MaxScore        = 100.0
	MaxBoostedScore = 150.0
)

// Urgency classifies how close an order is to its customer timeout.
type Urgency int

const (
	UrgencyNormal Urgency = iota
	UrgencyElevated
	UrgencyUrgent
)

func (u Urgency) String() string {
	switch u {
	case UrgencyElevated:
		return "elevated"
	case UrgencyUrgent:
		return "urgent"
	default:
		return "normal"
	}
}

// MarshalText lets urgency serialize as its lowercase name.
func (u Urgency) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

// Input carries everything the formula needs. MaxPrepMinutes is the longest
// preparation time across the drink catalog; PrepMinutes the order's own.
type Input struct {
	WaitMinutes       float64
	PrepMinutes       float64
	MaxPrepMinutes    float64
	TimeoutMinutes    float64
	LoyaltyBonus      int
	PeopleServedAhead int
	Premium           bool
	// EmergencyBoost enables rush-simulation scoring: +50 beyond 8 minutes
	// of wait and a cap of 150 instead of 100.
	EmergencyBoost bool
}

// Result is the scored projection for one order.
type Result struct {
	Score   float64
	Urgency Urgency
	Reason  string

	Wait            float64
	Complexity      float64
	Loyalty         float64
	UrgencyScore    float64
	Boost           float64
	FairnessPenalty float64
}

// Score evaluates the weighted formula:
//
//	wait(40) + complexity(25) + loyalty(10) + urgency(25) - fairness penalty
//
// clamped to [0, 100] (or [0, 150] with the emergency boost enabled).
func Score(in Input) Result {
	var res Result

	res.Wait = math.Min(in.WaitMinutes/waitCapMinutes*waitWeight, waitWeight)

	if in.MaxPrepMinutes > 0 {
		res.Complexity = (in.MaxPrepMinutes - in.PrepMinutes) / in.MaxPrepMinutes * complexityWeight
	}

	res.Loyalty = float64(in.LoyaltyBonus) / 10.0 * loyaltyWeight

	rampStart := in.TimeoutMinutes - urgencyWindowMinutes
	switch {
	case in.WaitMinutes >= in.TimeoutMinutes:
		res.UrgencyScore = urgencyWeight
		res.Urgency = UrgencyUrgent
		res.Reason = fmt.Sprintf("exceeded timeout (%.1f min)", in.TimeoutMinutes)
	case in.WaitMinutes >= rampStart:
		res.UrgencyScore = (in.WaitMinutes - rampStart) / urgencyWindowMinutes * urgencyWeight
		res.Urgency = UrgencyElevated
		res.Reason = fmt.Sprintf("approaching timeout, %.1f min remaining", in.TimeoutMinutes-in.WaitMinutes)
	default:
		res.Urgency = UrgencyNormal
		res.Reason = normalReason(in)
	}

	if in.EmergencyBoost && in.WaitMinutes > emergencyBoostMinutes {
		res.Boost = emergencyBoostPoints
	}

	if in.PeopleServedAhead > fairnessFreeSkips {
		res.FairnessPenalty = float64(in.PeopleServedAhead-fairnessFreeSkips) * fairnessPenaltyPerSkip
		res.Reason += fmt.Sprintf(" | fairness: skipped %d times", in.PeopleServedAhead)
	}

	limit := MaxScore
	if in.EmergencyBoost {
		limit = MaxBoostedScore
	}
	total := res.Wait + res.Complexity + res.Loyalty + res.UrgencyScore + res.Boost - res.FairnessPenalty
	res.Score = math.Max(0, math.Min(limit, total))
	return res
}

func normalReason(in Input) string {
	switch {
	case in.Premium:
		return "premium member priority"
	case in.PrepMinutes <= 2.0:
		return "quick order, throughput boost"
	case in.WaitMinutes > 3.0:
		return "wait time accumulating"
	default:
		return "standard priority"
	}
}
