package simulation

import (
	"sort"

	"github.com/coffeehub/smartqueue/core/model"
	"github.com/coffeehub/smartqueue/core/priority"
)

// An overloaded barista picks the shortest-prep order among this many
// top-scored candidates. The restriction keeps skewed baristas from reaching
// past emergency-boosted orders at the head of the queue.
const overrideCandidates = 3

// outcome is the per-order result of one policy replay.
type outcome struct {
	wait    []float64 // service start (or abandonment) minus arrival
	total   []float64 // service end (or abandonment) minus arrival
	served  []bool
	barista []int // index of the serving barista, -1 if abandoned
	skips   []int // fairness skip counters (SMART only)

	work  []float64 // per-barista cumulative worked minutes
	count []int     // per-barista completed orders
}

// replay runs one policy over the arrival stream with its own server state.
// The virtual clock advances in fixed steps; each step admits arrivals,
// abandons timed-out orders and assigns free baristas.
func replay(cfg Config, arrivals []arrival, smart bool) outcome {
	n := len(arrivals)
	out := outcome{
		wait:    make([]float64, n),
		total:   make([]float64, n),
		served:  make([]bool, n),
		barista: make([]int, n),
		skips:   make([]int, n),
		work:    make([]float64, cfg.Baristas),
		count:   make([]int, cfg.Baristas),
	}
	for i := range out.barista {
		out.barista[i] = -1
	}

	freeAt := make([]float64, cfg.Baristas)
	queue := make([]int, 0, n)
	next := 0

	for now := 0.0; now <= cfg.HorizonMinutes; now += cfg.StepMinutes {
		for next < n && arrivals[next].at <= now {
			queue = append(queue, next)
			next++
		}

		queue = abandonTimedOut(arrivals, queue, now, &out)

		if len(queue) == 0 {
			if next >= n {
				break
			}
			continue
		}

		if smart {
			queue = assignSmart(cfg, arrivals, queue, now, freeAt, &out)
		} else {
			queue = assignFIFO(cfg, arrivals, queue, now, freeAt, &out)
		}

		if next >= n && len(queue) == 0 {
			break
		}
	}

	// Whatever is still queued at the horizon never got served.
	for _, idx := range queue {
		out.wait[idx] = cfg.HorizonMinutes - arrivals[idx].at
		out.total[idx] = out.wait[idx]
	}
	return out
}

func abandonTimedOut(arrivals []arrival, queue []int, now float64, out *outcome) []int {
	kept := queue[:0]
	for _, idx := range queue {
		waited := now - arrivals[idx].at
		if waited >= arrivals[idx].customer.TimeoutMinutes() {
			out.wait[idx] = waited
			out.total[idx] = waited
			continue
		}
		kept = append(kept, idx)
	}
	return kept
}

// assignSmart scores the whole queue once per step with the emergency boost
// enabled, sorts it, then serves each free barista. An overloaded barista
// takes the shortest-prep order among the top candidates instead of the
// top-scored one.
func assignSmart(cfg Config, arrivals []arrival, queue []int, now float64, freeAt []float64, out *outcome) []int {
	scores := make(map[int]float64, len(queue))
	for _, idx := range queue {
		a := arrivals[idx]
		res := priority.Score(priority.Input{
			WaitMinutes:       now - a.at,
			PrepMinutes:       a.drink.PrepMinutes(),
			MaxPrepMinutes:    model.MaxPrepMinutes(),
			TimeoutMinutes:    a.customer.TimeoutMinutes(),
			LoyaltyBonus:      a.customer.LoyaltyBonus(),
			PeopleServedAhead: out.skips[idx],
			Premium:           a.customer == model.Premium,
			EmergencyBoost:    true,
		})
		scores[idx] = res.Score
	}
	sort.SliceStable(queue, func(i, j int) bool {
		if scores[queue[i]] != scores[queue[j]] {
			return scores[queue[i]] > scores[queue[j]]
		}
		return queue[i] < queue[j]
	})

	avg := 0.0
	for _, w := range out.work {
		avg += w
	}
	avg /= float64(len(out.work))

	for b := 0; b < cfg.Baristas && len(queue) > 0; b++ {
		if freeAt[b] > now {
			continue
		}

		ratio := 1.0
		if avg > 0 {
			ratio = out.work[b] / avg
		}
		pos := 0
		if ratio > model.OverloadRatio {
			pos = shortestPrepPos(arrivals, queue, overrideCandidates)
		}
		selected := queue[pos]
		queue = append(queue[:pos], queue[pos+1:]...)

		serve(arrivals, selected, b, now, freeAt, out)

		for _, idx := range queue {
			if arrivals[idx].at < arrivals[selected].at {
				out.skips[idx]++
			}
		}
	}
	return queue
}

// shortestPrepPos returns the position of the shortest-prep order among the
// first n scored candidates.
func shortestPrepPos(arrivals []arrival, queue []int, n int) int {
	if n > len(queue) {
		n = len(queue)
	}
	best := 0
	for pos := 1; pos < n; pos++ {
		if arrivals[queue[pos]].drink.PrepMinutes() < arrivals[queue[best]].drink.PrepMinutes() {
			best = pos
		}
	}
	return best
}

func assignFIFO(cfg Config, arrivals []arrival, queue []int, now float64, freeAt []float64, out *outcome) []int {
	for b := 0; b < cfg.Baristas && len(queue) > 0; b++ {
		if freeAt[b] > now {
			continue
		}
		selected := queue[0]
		queue = queue[1:]
		serve(arrivals, selected, b, now, freeAt, out)
	}
	return queue
}

func serve(arrivals []arrival, idx, b int, now float64, freeAt []float64, out *outcome) {
	prep := arrivals[idx].drink.PrepMinutes()
	start := now
	if freeAt[b] > start {
		start = freeAt[b]
	}
	end := start + prep

	out.served[idx] = true
	out.wait[idx] = start - arrivals[idx].at
	out.total[idx] = end - arrivals[idx].at
	out.barista[idx] = b

	freeAt[b] = end
	out.work[b] += prep
	out.count[b]++
}
