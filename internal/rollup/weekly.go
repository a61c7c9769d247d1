package rollup

import (
	"time"

	"github.com/yildizemre/visapa/internal/domain"
)

// WeekDays is the length of the weekly overview window
const WeekDays = 7

// CustomerTotals summarises footfall over the week
type CustomerTotals struct {
	TotalEntered    int64  `json:"total_entered"`
	TotalExited     int64  `json:"total_exited"`
	Male            int64  `json:"male"`
	Female          int64  `json:"female"`
	BusiestAgeGroup string `json:"busiest_age_group"`
}

// QueueTotals summarises queue records over the week
type QueueTotals struct {
	AvgWaitTime float64 `json:"avg_wait_time"`
	TotalQueues int64   `json:"total_queues"`
}

// WeeklyTotals groups the weekly customer and queue totals
type WeeklyTotals struct {
	Customers CustomerTotals `json:"customers"`
	Queues    QueueTotals    `json:"queues"`
}

// DailyFlow is one day of entries and exits
type DailyFlow struct {
	Date    string `json:"date"`
	Entered int64  `json:"entered"`
	Exited  int64  `json:"exited"`
}

// DailyGender is one day of gender counts
type DailyGender struct {
	Date   string `json:"date"`
	Male   int64  `json:"male"`
	Female int64  `json:"female"`
}

// DailyAge is one day of age group counts
type DailyAge struct {
	Date      string `json:"date"`
	Age18To30 int64  `json:"age_18_30"`
	Age30To50 int64  `json:"age_30_50"`
	Age50Plus int64  `json:"age_50_plus"`
}

// WeeklySeries holds one entry per day, oldest first
type WeeklySeries struct {
	DailyCustomerFlow []DailyFlow   `json:"daily_customer_flow"`
	DailyGender       []DailyGender `json:"daily_gender"`
	DailyAge          []DailyAge    `json:"daily_age"`
}

// Weekly is the dashboard overview of the last seven days
type Weekly struct {
	Totals     WeeklyTotals `json:"totals"`
	Timeseries WeeklySeries `json:"timeseries"`
}

// WeekStart returns the lower bound of the window ending at end
func WeekStart(end time.Time) time.Time {
	return end.AddDate(0, 0, -WeekDays)
}

// WeeklyOverview totals the week's footfall and queue records and lays out
// daily series for the seven calendar dates ending at end. Records dated
// outside those dates still count toward the totals.
func WeeklyOverview(footfall []domain.FootfallEvent, queue []domain.QueueEvent, end time.Time) Weekly {
	series := WeeklySeries{
		DailyCustomerFlow: make([]DailyFlow, WeekDays),
		DailyGender:       make([]DailyGender, WeekDays),
		DailyAge:          make([]DailyAge, WeekDays),
	}
	index := make(map[string]int, WeekDays)
	for i := 0; i < WeekDays; i++ {
		d := end.AddDate(0, 0, i-(WeekDays-1)).Format(dateLayout)
		index[d] = i
		series.DailyCustomerFlow[i].Date = d
		series.DailyGender[i].Date = d
		series.DailyAge[i].Date = d
	}

	var totals CustomerTotals
	var ages [3]int64
	for _, row := range stampAll(footfall, footfallTimes) {
		e := row.rec
		totals.TotalEntered += e.Entered
		totals.TotalExited += e.Exited
		totals.Male += e.MaleCount
		totals.Female += e.FemaleCount
		ages[0] += e.Age18To30
		ages[1] += e.Age30To50
		ages[2] += e.Age50Plus

		if !row.ok {
			continue
		}
		i, ok := index[row.at.Format(dateLayout)]
		if !ok {
			continue
		}
		series.DailyCustomerFlow[i].Entered += e.Entered
		series.DailyCustomerFlow[i].Exited += e.Exited
		series.DailyGender[i].Male += e.MaleCount
		series.DailyGender[i].Female += e.FemaleCount
		series.DailyAge[i].Age18To30 += e.Age18To30
		series.DailyAge[i].Age30To50 += e.Age30To50
		series.DailyAge[i].Age50Plus += e.Age50Plus
	}
	totals.BusiestAgeGroup = busiestAgeGroup(len(footfall) > 0, ages)

	return Weekly{
		Totals: WeeklyTotals{
			Customers: totals,
			Queues: QueueTotals{
				AvgWaitTime: AggregateQueue(queue).OverallStats.AvgWaitTime,
				TotalQueues: int64(len(queue)),
			},
		},
		Timeseries: series,
	}
}

var ageGroupLabels = [3]string{"18-30", "30-50", "50+"}

func busiestAgeGroup(hasRows bool, ages [3]int64) string {
	if !hasRows {
		return NotAvailable
	}
	best := 0
	for i := 1; i < len(ages); i++ {
		if ages[i] > ages[best] {
			best = i
		}
	}
	return ageGroupLabels[best]
}
