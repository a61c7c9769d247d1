package rollup

import (
	"math"
	"sort"
	"time"

	"github.com/yildizemre/visapa/internal/domain"
)

// DistributionBucket is a half-open wait-time interval [Lower, Upper)
type DistributionBucket struct {
	Lower float64
	Upper float64
	Label string
}

// WaitTimeBuckets are the fixed histogram intervals, in match order
var WaitTimeBuckets = []DistributionBucket{
	{Lower: 0, Upper: 60, Label: "0-1 dk"},
	{Lower: 60, Upper: 120, Label: "1-2 dk"},
	{Lower: 120, Upper: 180, Label: "2-3 dk"},
	{Lower: 180, Upper: 300, Label: "3-5 dk"},
	{Lower: 300, Upper: math.Inf(1), Label: "5+ dk"},
}

// DistributionIndex returns the first bucket whose interval holds v, or -1
func DistributionIndex(v float64) int {
	for i, b := range WaitTimeBuckets {
		if v >= b.Lower && v < b.Upper {
			return i
		}
	}
	return -1
}

// DistributionEntry is one histogram bar
type DistributionEntry struct {
	Range string `json:"range"`
	Count int64  `json:"count"`
}

// QueueHour is one hourly entry of queue statistics
type QueueHour struct {
	Hour           string  `json:"hour"`
	TotalCustomers int64   `json:"totalCustomers"`
	AvgWaitTime    float64 `json:"avgWaitTime"`
	MinWaitTime    float64 `json:"minWaitTime"`
	MaxWaitTime    float64 `json:"maxWaitTime"`
	EditableID     *string `json:"editable_id"`
}

// QueueOverall holds the totals over the whole filtered set
type QueueOverall struct {
	TotalCustomers int64   `json:"totalCustomers"`
	AvgWaitTime    float64 `json:"avgWaitTime"`
	MaxWaitTime    float64 `json:"maxWaitTime"`
}

// CashierPerformance ranks one cashier
type CashierPerformance struct {
	Cashier        string  `json:"cashier"`
	TotalCustomers int64   `json:"totalCustomers"`
	AvgWait        float64 `json:"avgWait"`
}

// QueueRollup is the aggregator output for one queue query
type QueueRollup struct {
	OverallStats         QueueOverall         `json:"overallStats"`
	HourlySummary        []QueueHour          `json:"hourlySummary"`
	WaitTimeDistribution []DistributionEntry  `json:"waitTimeDistribution"`
	CashierPerformance   []CashierPerformance `json:"cashierPerformance"`
}

type queueAcc struct {
	customers int64
	waitSum   float64
	min       float64
	minSet    bool
	max       float64
	editable  editable
}

type weightedAcc struct {
	customers int64
	waitSum   float64
}

func queueTimes(e *domain.QueueEvent) []*time.Time {
	return []*time.Time{e.RecordedAt, e.CreatedAt}
}

// AggregateQueue computes hourly wait statistics weighted by the number of
// customers each record stands for, the wait-time histogram and the
// per-cashier ranking. Hours of different dates in the range share a bucket.
func AggregateQueue(events []domain.QueueEvent) QueueRollup {
	rows := stampAll(events, queueTimes)

	var hours [24]queueAcc
	var overall weightedAcc
	var maxWait float64
	dist := make([]int64, len(WaitTimeBuckets))
	cashiers := make(map[string]*weightedAcc)

	for _, row := range rows {
		e := row.rec
		cnt := e.Customers()
		wt := e.Wait()
		weighted := wt * float64(cnt)

		overall.customers += cnt
		overall.waitSum += weighted
		if wt > maxWait {
			maxWait = wt
		}

		if idx := DistributionIndex(wt); idx >= 0 {
			dist[idx] += cnt
		}

		id := dimensionOr(e.CashierID)
		c, ok := cashiers[id]
		if !ok {
			c = &weightedAcc{}
			cashiers[id] = c
		}
		c.customers += cnt
		c.waitSum += weighted

		if !row.ok {
			continue
		}
		acc := &hours[row.at.Hour()]
		acc.customers += cnt
		acc.waitSum += weighted
		if wt > 0 && (!acc.minSet || wt < acc.min) {
			acc.min = wt
			acc.minSet = true
		}
		if wt > acc.max {
			acc.max = wt
		}
		acc.editable.claim(e.ID)
	}

	hourly := make([]QueueHour, 0, HourCount)
	for h := FirstHour; h <= LastHour; h++ {
		acc := hours[h]
		hourly = append(hourly, QueueHour{
			Hour:           HourLabel(h),
			TotalCustomers: acc.customers,
			AvgWaitTime:    round1(ratio(acc.waitSum, float64(acc.customers))),
			MinWaitTime:    acc.min,
			MaxWaitTime:    acc.max,
			EditableID:     acc.editable.ref(),
		})
	}

	distribution := make([]DistributionEntry, len(WaitTimeBuckets))
	for i, b := range WaitTimeBuckets {
		distribution[i] = DistributionEntry{Range: b.Label, Count: dist[i]}
	}

	ids := make([]string, 0, len(cashiers))
	for id := range cashiers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	perf := make([]CashierPerformance, 0, len(ids))
	for _, id := range ids {
		c := cashiers[id]
		perf = append(perf, CashierPerformance{
			Cashier:        id,
			TotalCustomers: c.customers,
			AvgWait:        ratio(c.waitSum, float64(c.customers)),
		})
	}

	return QueueRollup{
		OverallStats: QueueOverall{
			TotalCustomers: overall.customers,
			AvgWaitTime:    ratio(overall.waitSum, float64(overall.customers)),
			MaxWaitTime:    maxWait,
		},
		HourlySummary:        hourly,
		WaitTimeDistribution: distribution,
		CashierPerformance:   perf,
	}
}
