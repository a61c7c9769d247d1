// Package rollup turns raw, irregularly timestamped telemetry into the fixed
// hourly rollups served to the dashboard. Every function here is a pure
// function of its input slice: no package state, no I/O.
package rollup

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// FirstHour and LastHour bound the hourly summaries, inclusive
	FirstHour = 10
	LastHour  = 22

	// RecentRecordLimit bounds the flat footfall listing
	RecentRecordLimit = 500

	// UnknownDimension labels records that carry no cashier or zone
	UnknownDimension = "Bilinmeyen"

	// NotAvailable labels a "busiest" pick made over no data
	NotAvailable = "N/A"

	dateLayout = "2006-01-02"
)

// HourCount is the number of entries in every hourly summary
const HourCount = LastHour - FirstHour + 1

// Bucket is an aggregation key: a calendar date and an hour of day
type Bucket struct {
	Date string
	Hour int
}

// BucketOf assigns a timestamp to its UTC date and hour
func BucketOf(t time.Time) Bucket {
	t = t.UTC()
	return Bucket{Date: t.Format(dateLayout), Hour: t.Hour()}
}

// HourLabel formats an hour as "HH:00"
func HourLabel(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// ResolveTime returns the first non-nil candidate, in priority order
func ResolveTime(candidates ...*time.Time) (time.Time, bool) {
	for _, c := range candidates {
		if c != nil && !c.IsZero() {
			return *c, true
		}
	}
	return time.Time{}, false
}

// stamped pairs a record with its resolved time, computed once per record
type stamped[T any] struct {
	rec *T
	at  time.Time
	ok  bool
}

func stampAll[T any](records []T, candidates func(*T) []*time.Time) []stamped[T] {
	out := make([]stamped[T], len(records))
	for i := range records {
		at, ok := ResolveTime(candidates(&records[i])...)
		out[i] = stamped[T]{rec: &records[i], at: at.UTC(), ok: ok}
	}
	return out
}

// editable remembers the first record id claimed for a bucket
type editable struct {
	id   string
	seen bool
}

func (e *editable) claim(id string) {
	if e.seen {
		return
	}
	e.id = id
	e.seen = true
}

func (e editable) ref() *string {
	if !e.seen {
		return nil
	}
	id := e.id
	return &id
}

func dimensionOr(s *string) string {
	if s == nil || *s == "" {
		return UnknownDimension
	}
	return *s
}

// ratio divides and yields 0 for a zero denominator or a non-finite result
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return finite(num / den)
}

func round1(v float64) float64 {
	if v = finite(v); v == 0 {
		return 0
	}
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
