package priority

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func base() Input {
	return Input{
		PrepMinutes:    4,
		MaxPrepMinutes: 6,
		TimeoutMinutes: 10,
	}
}

func TestWaitComponentSaturates(t *testing.T) {
	in := base()
	in.WaitMinutes = 5
	assert.InDelta(t, 20.0, Score(in).Wait, 1e-9)

	in.WaitMinutes = 10
	assert.InDelta(t, 40.0, Score(in).Wait, 1e-9)

	in.WaitMinutes = 25
	assert.InDelta(t, 40.0, Score(in).Wait, 1e-9)
}

func TestComplexityFavorsQuickOrders(t *testing.T) {
	quick := base()
	quick.PrepMinutes = 1
	slow := base()
	slow.PrepMinutes = 6

	if Score(quick).Complexity <= Score(slow).Complexity {
		t.Fatalf("expected quicker order to score higher on complexity")
	}
	assert.InDelta(t, 0.0, Score(slow).Complexity, 1e-9)
}

func TestUrgencyRamp(t *testing.T) {
	in := base()

	in.WaitMinutes = 7.9
	res := Score(in)
	assert.Equal(t, UrgencyNormal, res.Urgency)
	assert.Zero(t, res.UrgencyScore)

	// Entering the ramp: component exactly 0 at timeout-2.
	in.WaitMinutes = 8
	res = Score(in)
	assert.Equal(t, UrgencyElevated, res.Urgency)
	assert.InDelta(t, 0.0, res.UrgencyScore, 1e-9)

	in.WaitMinutes = 9
	assert.InDelta(t, 12.5, Score(in).UrgencyScore, 1e-9)

	// Pinned at full weight once the timeout is reached.
	in.WaitMinutes = 10
	res = Score(in)
	assert.Equal(t, UrgencyUrgent, res.Urgency)
	assert.InDelta(t, 25.0, res.UrgencyScore, 1e-9)
	if !strings.Contains(res.Reason, "exceeded timeout") {
		t.Fatalf("urgent reason = %q", res.Reason)
	}

	in.WaitMinutes = 30
	assert.InDelta(t, 25.0, Score(in).UrgencyScore, 1e-9)
}

func TestFairnessPenalty(t *testing.T) {
	in := base()
	for skips := 0; skips <= 3; skips++ {
		in.PeopleServedAhead = skips
		assert.Zero(t, Score(in).FairnessPenalty, "skips=%d", skips)
	}
	in.PeopleServedAhead = 5
	res := Score(in)
	assert.InDelta(t, 4.0, res.FairnessPenalty, 1e-9)
	if !strings.Contains(res.Reason, "skipped 5 times") {
		t.Fatalf("fairness reason = %q", res.Reason)
	}
}

func TestScoreBounds(t *testing.T) {
	in := base()
	in.WaitMinutes = 60
	in.LoyaltyBonus = 10
	in.PrepMinutes = 1
	res := Score(in)
	if res.Score < 0 || res.Score > MaxScore {
		t.Fatalf("live score %.2f out of [0,100]", res.Score)
	}

	in.EmergencyBoost = true
	res = Score(in)
	assert.InDelta(t, emergencyBoostPoints, res.Boost, 1e-9)
	if res.Score < 0 || res.Score > MaxBoostedScore {
		t.Fatalf("boosted score %.2f out of [0,150]", res.Score)
	}
	if res.Score <= MaxScore {
		t.Fatalf("expected boosted score above 100, got %.2f", res.Score)
	}
}

func TestEmergencyBoostThreshold(t *testing.T) {
	in := base()
	in.EmergencyBoost = true
	in.WaitMinutes = 8
	assert.Zero(t, Score(in).Boost, "boost applies strictly beyond 8 minutes")
	in.WaitMinutes = 8.5
	assert.InDelta(t, emergencyBoostPoints, Score(in).Boost, 1e-9)
}

func TestScoreIsIdempotent(t *testing.T) {
	in := base()
	in.WaitMinutes = 6.5
	in.PeopleServedAhead = 4
	a := Score(in)
	b := Score(in)
	if math.Abs(a.Score-b.Score) > 1e-12 || a.Reason != b.Reason || a.Urgency != b.Urgency {
		t.Fatalf("same input produced different results: %+v vs %+v", a, b)
	}
}

func TestNormalReasons(t *testing.T) {
	in := base()
	in.Premium = true
	assert.Equal(t, "premium member priority", Score(in).Reason)

	in = base()
	in.PrepMinutes = 2
	assert.Equal(t, "quick order, throughput boost", Score(in).Reason)

	in = base()
	in.WaitMinutes = 4
	assert.Equal(t, "wait time accumulating", Score(in).Reason)

	in = base()
	assert.Equal(t, "standard priority", Score(in).Reason)
}
