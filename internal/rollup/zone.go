package rollup

import (
	"sort"
	"time"

	"github.com/yildizemre/visapa/internal/domain"
)

// ZoneHour is one hourly entry of zone statistics
type ZoneHour struct {
	Hour          string  `json:"hour"`
	TotalVisitors int64   `json:"totalVisitors"`
	AvgDwellTime  float64 `json:"avgDwellTime"`
	EditableID    *string `json:"editable_id"`
}

// ZoneOverall holds the totals over the whole filtered set
type ZoneOverall struct {
	TotalVisitors int64   `json:"totalVisitors"`
	AvgDwellTime  float64 `json:"avgDwellTime"`
	BusiestZone   string  `json:"busiestZone"`
}

// ZonePerformance ranks one zone
type ZonePerformance struct {
	Zone          string  `json:"zone"`
	TotalVisitors int64   `json:"totalVisitors"`
	AvgDwell      float64 `json:"avgDwell"`
}

// ZoneRollup is the aggregator output for one zone query
type ZoneRollup struct {
	OverallStats    ZoneOverall       `json:"overallStats"`
	HourlySummary   []ZoneHour        `json:"hourlySummary"`
	ZonePerformance []ZonePerformance `json:"zonePerformance"`
}

type zoneAcc struct {
	visitors int64
	dwellSum float64
	count    int64
	editable editable
}

func (a *zoneAcc) add(e *domain.ZoneEvent) {
	a.visitors += e.Visitors()
	a.dwellSum += e.Dwell()
	a.count++
}

func (a *zoneAcc) avgDwell() float64 {
	return ratio(a.dwellSum, float64(a.count))
}

func zoneTimes(e *domain.ZoneEvent) []*time.Time {
	return []*time.Time{e.RecordedAt, e.CreatedAt}
}

// AggregateZones computes hourly visitor and dwell statistics and the per-zone
// ranking. Dwell averages count every record once regardless of its visitors.
func AggregateZones(events []domain.ZoneEvent) ZoneRollup {
	rows := stampAll(events, zoneTimes)

	var hours [24]zoneAcc
	var overall zoneAcc
	zones := make(map[string]*zoneAcc)

	busiest := NotAvailable
	var busiestVisitors int64
	for i, row := range rows {
		e := row.rec
		overall.add(e)

		// strict comparison keeps the first record on ties
		if i == 0 || e.Visitors() > busiestVisitors {
			busiest = dimensionOr(e.Zone)
			busiestVisitors = e.Visitors()
		}

		z := dimensionOr(e.Zone)
		acc, ok := zones[z]
		if !ok {
			acc = &zoneAcc{}
			zones[z] = acc
		}
		acc.add(e)

		if !row.ok {
			continue
		}
		h := &hours[row.at.Hour()]
		h.add(e)
		h.editable.claim(e.ID)
	}

	hourly := make([]ZoneHour, 0, HourCount)
	for h := FirstHour; h <= LastHour; h++ {
		acc := &hours[h]
		hourly = append(hourly, ZoneHour{
			Hour:          HourLabel(h),
			TotalVisitors: acc.visitors,
			AvgDwellTime:  round1(acc.avgDwell()),
			EditableID:    acc.editable.ref(),
		})
	}

	names := make([]string, 0, len(zones))
	for z := range zones {
		names = append(names, z)
	}
	sort.Strings(names)
	perf := make([]ZonePerformance, 0, len(names))
	for _, z := range names {
		acc := zones[z]
		perf = append(perf, ZonePerformance{
			Zone:          z,
			TotalVisitors: acc.visitors,
			AvgDwell:      acc.avgDwell(),
		})
	}

	return ZoneRollup{
		OverallStats: ZoneOverall{
			TotalVisitors: overall.visitors,
			AvgDwellTime:  overall.avgDwell(),
			BusiestZone:   busiest,
		},
		HourlySummary:   hourly,
		ZonePerformance: perf,
	}
}
