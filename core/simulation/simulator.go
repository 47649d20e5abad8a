package simulation

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/coffeehub/smartqueue/core/logger"
	"github.com/coffeehub/smartqueue/core/model"
)

// Simulator runs rush-hour comparisons. Each Run draws a fresh arrival
// stream from its own RNG, so concurrent Runs of separate Simulators are
// safe.
type Simulator struct {
	cfg Config
	log logger.Logger
}

// New creates a Simulator. A nil logger disables logging.
func New(cfg Config, log logger.Logger) (*Simulator, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("simulation config: %w", err)
	}
	return &Simulator{cfg: cfg, log: log}, nil
}

// Run generates one arrival stream and replays it through both policies.
func (s *Simulator) Run() *Report {
	seed := s.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	arrivals := generateArrivals(s.cfg, rng)

	smart := replay(s.cfg, arrivals, true)
	fifo := replay(s.cfg, arrivals, false)

	rep := &Report{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now(),
		TotalOrders: s.cfg.Orders,
		Seed:        seed,
		Smart:       summarize("smart", s.cfg, arrivals, smart),
		FIFO:        summarize("fifo", s.cfg, arrivals, fifo),
		Meta: Meta{
			Duration:    fmt.Sprintf("%.0f minutes", s.cfg.HorizonMinutes),
			ArrivalRate: fmt.Sprintf("%.1f customers/minute (Poisson)", s.cfg.Lambda),
			Algorithm:   "weighted priority (40/25/10/25) with emergency boost",
		},
	}

	if rep.FIFO.AvgWaitMinutes > 0 {
		rep.WaitImprovementPct = (1 - rep.Smart.AvgWaitMinutes/rep.FIFO.AvgWaitMinutes) * 100
	}
	if rep.FIFO.Complaints > 0 {
		rep.ComplaintReductionPct = (1 - float64(rep.Smart.Complaints)/float64(rep.FIFO.Complaints)) * 100
	}

	rep.Orders = drilldown(arrivals, smart)

	if s.log != nil {
		s.log.Infof("rush hour simulated: smart wait %.2f min vs fifo %.2f min (%.1f%% improvement)",
			rep.Smart.AvgWaitMinutes, rep.FIFO.AvgWaitMinutes, rep.WaitImprovementPct)
	}
	return rep
}

// drilldown builds the per-order records of the SMART replay.
func drilldown(arrivals []arrival, out outcome) []OrderRecord {
	records := make([]OrderRecord, len(arrivals))
	for i, a := range arrivals {
		rec := OrderRecord{
			Seq:           i + 1,
			Drink:         a.drink.DisplayName(),
			PrepMinutes:   a.drink.PrepMinutes(),
			Customer:      a.customer.DisplayName(),
			ArrivalMinute: a.at,
			WaitMinutes:   out.wait[i],
			TotalMinutes:  out.total[i],
			Served:        out.served[i],
			Complaint:     !out.served[i] || out.total[i] > model.ComplaintThresholdMinutes,
			Barista:       "-",
			SkippedBy:     out.skips[i],
		}
		if out.barista[i] >= 0 {
			rec.Barista = "Barista " + strconv.Itoa(out.barista[i]+1)
		}
		records[i] = rec
	}
	return records
}
