package rollup

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/yildizemre/visapa/internal/domain"
)

var propertyDay = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func queueEventsFrom(waits []float64, counts []int64, hours []int) []domain.QueueEvent {
	n := len(waits)
	if len(counts) < n {
		n = len(counts)
	}
	if len(hours) < n {
		n = len(hours)
	}
	events := make([]domain.QueueEvent, n)
	for i := 0; i < n; i++ {
		ts := propertyDay.Add(time.Duration(hours[i]) * time.Hour)
		cashier := fmt.Sprintf("Kasa-%d", i%4)
		events[i] = domain.QueueEvent{
			ID:             fmt.Sprintf("q-%d", i),
			RecordedAt:     &ts,
			WaitTime:       &waits[i],
			TotalCustomers: &counts[i],
			CashierID:      &cashier,
		}
	}
	return events
}

// TestProperty_QueueWeightsConserved checks that every weighted customer lands
// in exactly one cashier entry and exactly one histogram bucket.
func TestProperty_QueueWeightsConserved(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("cashier totals sum to overall customers", prop.ForAll(
		func(waits []float64, counts []int64, hours []int) bool {
			result := AggregateQueue(queueEventsFrom(waits, counts, hours))
			var sum int64
			for _, c := range result.CashierPerformance {
				sum += c.TotalCustomers
			}
			return sum == result.OverallStats.TotalCustomers
		},
		gen.SliceOf(gen.Float64Range(0, 900)),
		gen.SliceOf(gen.Int64Range(0, 6)),
		gen.SliceOf(gen.IntRange(0, 23)),
	))

	properties.Property("distribution counts sum to overall customers", prop.ForAll(
		func(waits []float64, counts []int64, hours []int) bool {
			result := AggregateQueue(queueEventsFrom(waits, counts, hours))
			var sum int64
			for _, d := range result.WaitTimeDistribution {
				sum += d.Count
			}
			return sum == result.OverallStats.TotalCustomers
		},
		gen.SliceOf(gen.Float64Range(0, 900)),
		gen.SliceOf(gen.Int64Range(0, 6)),
		gen.SliceOf(gen.IntRange(0, 23)),
	))

	properties.Property("hourly summary always has the fixed hour range", prop.ForAll(
		func(waits []float64, counts []int64, hours []int) bool {
			result := AggregateQueue(queueEventsFrom(waits, counts, hours))
			if len(result.HourlySummary) != HourCount {
				return false
			}
			for i, h := range result.HourlySummary {
				if h.Hour != HourLabel(FirstHour+i) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(0, 900)),
		gen.SliceOf(gen.Int64Range(0, 6)),
		gen.SliceOf(gen.IntRange(0, 23)),
	))

	properties.TestingRun(t)
}

// TestProperty_FootfallHourlyBoundedByTotals checks that bucketed flow never
// exceeds the unconditional totals and that aggregation is repeatable.
func TestProperty_FootfallHourlyBoundedByTotals(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	build := func(entered []int64, hours []int) []domain.FootfallEvent {
		n := len(entered)
		if len(hours) < n {
			n = len(hours)
		}
		events := make([]domain.FootfallEvent, n)
		for i := 0; i < n; i++ {
			ts := propertyDay.Add(time.Duration(hours[i]) * time.Hour)
			events[i] = domain.FootfallEvent{ID: fmt.Sprintf("f-%d", i), Timestamp: &ts, Entered: entered[i], Exited: entered[i] / 2}
		}
		return events
	}

	properties.Property("hourly entered never exceeds total entered", prop.ForAll(
		func(entered []int64, hours []int) bool {
			result := AggregateFootfall(build(entered, hours))
			var sum int64
			for _, h := range result.HourlySummary {
				sum += h.Entered
			}
			return sum <= result.OverallStats.TotalEntered
		},
		gen.SliceOf(gen.Int64Range(0, 1000)),
		gen.SliceOf(gen.IntRange(0, 23)),
	))

	properties.Property("aggregating twice yields identical output", prop.ForAll(
		func(entered []int64, hours []int) bool {
			events := build(entered, hours)
			return reflect.DeepEqual(AggregateFootfall(events), AggregateFootfall(events))
		},
		gen.SliceOf(gen.Int64Range(0, 1000)),
		gen.SliceOf(gen.IntRange(0, 23)),
	))

	properties.TestingRun(t)
}
