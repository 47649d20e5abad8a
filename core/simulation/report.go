package simulation

import (
	"strconv"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/coffeehub/smartqueue/core/model"
)

// BaristaWork summarizes one simulated barista.
type BaristaWork struct {
	Name            string  `json:"name"`
	OrdersCompleted int     `json:"ordersCompleted"`
	WorkedMinutes   float64 `json:"totalWorkMinutes"`
	SharePct        float64 `json:"workloadShare"`
}

// PolicyStats aggregates one policy replay.
type PolicyStats struct {
	Policy                string         `json:"policy"`
	Served                int            `json:"ordersServed"`
	Abandoned             int            `json:"ordersAbandoned"`
	AvgWaitMinutes        float64        `json:"averageWaitTime"`
	AvgTotalMinutes       float64        `json:"averageCompletionTime"`
	Complaints            int            `json:"totalComplaints"`
	ComplaintRate         float64        `json:"complaintRate"`
	ComplaintsByCustomer  map[string]int `json:"complaintsByCustomerType"`
	Baristas              []BaristaWork  `json:"baristaWorkload"`
	WorkloadBalance       float64        `json:"workloadBalance"`
	FairnessViolationRate float64        `json:"fairnessViolationRate"`
}

// OrderRecord is the per-order drill-down of the SMART replay.
type OrderRecord struct {
	Seq           int     `json:"id"`
	Drink         string  `json:"drink"`
	PrepMinutes   float64 `json:"prepTime"`
	Customer      string  `json:"customerType"`
	ArrivalMinute float64 `json:"arrivalMinute"`
	WaitMinutes   float64 `json:"waitTime"`
	TotalMinutes  float64 `json:"totalTime"`
	Served        bool    `json:"served"`
	Complaint     bool    `json:"complaint"`
	Barista       string  `json:"barista"`
	SkippedBy     int     `json:"skippedBy"`
}

// Meta describes the simulated scenario.
type Meta struct {
	Duration    string `json:"rushHourDuration"`
	ArrivalRate string `json:"peakArrivalRate"`
	Algorithm   string `json:"algorithm"`
}

// Report is the side-by-side comparison of the two policies over one
// arrival stream.
type Report struct {
	ID          string    `json:"reportId"`
	GeneratedAt time.Time `json:"generatedAt"`
	TotalOrders int       `json:"totalOrders"`
	Seed        int64     `json:"seed"`

	Smart PolicyStats `json:"smart"`
	FIFO  PolicyStats `json:"fifoComparison"`

	WaitImprovementPct    float64 `json:"waitTimeImprovement"`
	ComplaintReductionPct float64 `json:"complaintReduction"`

	Orders []OrderRecord `json:"orderDetails"`
	Meta   Meta          `json:"meta"`
}

// summarize folds one replay outcome into policy statistics. All degenerate
// denominators (no served orders, zero mean workload) fall back to zeroed or
// neutral values instead of NaN.
func summarize(policy string, cfg Config, arrivals []arrival, out outcome) PolicyStats {
	st := PolicyStats{Policy: policy, ComplaintsByCustomer: map[string]int{}}

	totalWait, totalTime := 0.0, 0.0
	fairnessHit := 0
	for i := range arrivals {
		if !out.served[i] {
			st.Abandoned++
			st.Complaints++
			st.ComplaintsByCustomer[arrivals[i].customer.String()]++
			continue
		}
		st.Served++
		totalWait += out.wait[i]
		totalTime += out.total[i]
		if out.total[i] > model.ComplaintThresholdMinutes {
			st.Complaints++
			st.ComplaintsByCustomer[arrivals[i].customer.String()]++
		}
		if out.skips[i] > 3 {
			fairnessHit++
		}
	}
	if st.Served > 0 {
		st.AvgWaitMinutes = totalWait / float64(st.Served)
		st.AvgTotalMinutes = totalTime / float64(st.Served)
		st.FairnessViolationRate = float64(fairnessHit) * 100 / float64(st.Served)
	}
	if len(arrivals) > 0 {
		st.ComplaintRate = float64(st.Complaints) * 100 / float64(len(arrivals))
	}

	totalWork := 0.0
	for _, w := range out.work {
		totalWork += w
	}
	for b := 0; b < cfg.Baristas; b++ {
		bw := BaristaWork{
			Name:            "Barista " + strconv.Itoa(b+1),
			OrdersCompleted: out.count[b],
			WorkedMinutes:   out.work[b],
		}
		if totalWork > 0 {
			bw.SharePct = out.work[b] * 100 / totalWork
		}
		st.Baristas = append(st.Baristas, bw)
	}

	mean := stat.Mean(out.work, nil)
	if mean > 0 {
		stddev := stat.PopStdDev(out.work, nil)
		balance := 100 - stddev/mean*100
		if balance < 0 {
			balance = 0
		}
		st.WorkloadBalance = balance
	} else {
		st.WorkloadBalance = 100
	}
	return st
}
