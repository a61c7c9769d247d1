package rollup

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yildizemre/visapa/internal/domain"
)

const recordTimeLayout = "2006-01-02T15:04:05"

// FootfallHour is one hourly entry of footfall flow
type FootfallHour struct {
	Hour       string  `json:"hour"`
	Entered    int64   `json:"entered"`
	Exited     int64   `json:"exited"`
	EditableID *string `json:"editable_id"`
}

// FootfallOverall holds unconditional sums over the filtered set
type FootfallOverall struct {
	TotalEntered        int64   `json:"totalEntered"`
	TotalExited         int64   `json:"totalExited"`
	TotalMale           int64   `json:"totalMale"`
	TotalFemale         int64   `json:"totalFemale"`
	TotalPurchaseAmount float64 `json:"totalPurchaseAmount"`
}

// NamedValue is a chart point keyed by label
type NamedValue struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// GenderValue is a chart point keyed by gender label
type GenderValue struct {
	Gender string `json:"gender"`
	Value  int64  `json:"value"`
}

// Demographics holds the age-band and gender charts
type Demographics struct {
	AgeGroupsChart          []NamedValue  `json:"ageGroupsChart"`
	GenderDistributionChart []GenderValue `json:"genderDistributionChart"`
}

// FootfallRecord is the flat per-record view used for raw display
type FootfallRecord struct {
	ID             string  `json:"id"`
	OwnerID        int64   `json:"owner_id"`
	Timestamp      *string `json:"timestamp"`
	Location       *string `json:"location"`
	MaleCount      int64   `json:"male_count"`
	FemaleCount    int64   `json:"female_count"`
	Age18To30      int64   `json:"age_18_30"`
	Age30To50      int64   `json:"age_30_50"`
	Age50Plus      int64   `json:"age_50_plus"`
	ZoneVisited    *string `json:"zone_visited"`
	CameraID       *string `json:"camera_id"`
	PurchaseAmount float64 `json:"purchase_amount"`
	Entered        int64   `json:"entered"`
	Exited         int64   `json:"exited"`
}

// FootfallRollup is the aggregator output for one footfall query
type FootfallRollup struct {
	OverallStats  FootfallOverall  `json:"overallStats"`
	HourlySummary []FootfallHour   `json:"hourlySummary"`
	Demographics  Demographics     `json:"demographics"`
	Data          []FootfallRecord `json:"data"`
}

type flowAcc struct {
	entered  int64
	exited   int64
	editable editable
}

func footfallTimes(e *domain.FootfallEvent) []*time.Time {
	return []*time.Time{e.Timestamp, e.CreatedAt}
}

// AggregateFootfall computes hourly in/out flow, demographic totals and the
// recent-record listing. Events must already be filtered to the caller's
// owners and date range; their order decides each bucket's editable record.
func AggregateFootfall(events []domain.FootfallEvent) FootfallRollup {
	rows := stampAll(events, footfallTimes)

	var hours [24]flowAcc
	var overall FootfallOverall
	var age18, age30, age50 int64
	purchase := decimal.Zero

	for _, row := range rows {
		e := row.rec
		overall.TotalEntered += e.Entered
		overall.TotalExited += e.Exited
		overall.TotalMale += e.MaleCount
		overall.TotalFemale += e.FemaleCount
		age18 += e.Age18To30
		age30 += e.Age30To50
		age50 += e.Age50Plus
		purchase = purchase.Add(decimal.NewFromFloat(e.PurchaseAmount))

		if !row.ok {
			continue
		}
		acc := &hours[row.at.Hour()]
		acc.entered += e.Entered
		acc.exited += e.Exited
		acc.editable.claim(e.ID)
	}
	overall.TotalPurchaseAmount = purchase.Round(2).InexactFloat64()

	return FootfallRollup{
		OverallStats:  overall,
		HourlySummary: footfallHours(func(h int) *flowAcc { return &hours[h] }),
		Demographics: Demographics{
			AgeGroupsChart: []NamedValue{
				{Name: "18-30", Value: age18},
				{Name: "30-50", Value: age30},
				{Name: "50+", Value: age50},
			},
			GenderDistributionChart: []GenderValue{
				{Gender: "Erkek", Value: overall.TotalMale},
				{Gender: "Kadın", Value: overall.TotalFemale},
			},
		},
		Data: recentRecords(rows),
	}
}

func footfallHours(at func(hour int) *flowAcc) []FootfallHour {
	out := make([]FootfallHour, 0, HourCount)
	for h := FirstHour; h <= LastHour; h++ {
		acc := at(h)
		out = append(out, FootfallHour{
			Hour:       HourLabel(h),
			Entered:    acc.entered,
			Exited:     acc.exited,
			EditableID: acc.editable.ref(),
		})
	}
	return out
}

// recentRecords lists the newest records first; records without any time sort last
func recentRecords(rows []stamped[domain.FootfallEvent]) []FootfallRecord {
	ordered := make([]stamped[domain.FootfallEvent], len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.ok != b.ok {
			return a.ok
		}
		return a.at.After(b.at)
	})
	if len(ordered) > RecentRecordLimit {
		ordered = ordered[:RecentRecordLimit]
	}

	out := make([]FootfallRecord, 0, len(ordered))
	for _, row := range ordered {
		e := row.rec
		var ts *string
		if row.ok {
			s := row.at.Format(recordTimeLayout)
			ts = &s
		}
		out = append(out, FootfallRecord{
			ID:             e.ID,
			OwnerID:        e.OwnerID,
			Timestamp:      ts,
			Location:       e.Location,
			MaleCount:      e.MaleCount,
			FemaleCount:    e.FemaleCount,
			Age18To30:      e.Age18To30,
			Age30To50:      e.Age30To50,
			Age50Plus:      e.Age50Plus,
			ZoneVisited:    e.Zone,
			CameraID:       e.CameraID,
			PurchaseAmount: e.PurchaseAmount,
			Entered:        e.Entered,
			Exited:         e.Exited,
		})
	}
	return out
}

// FlowSummary totals one calendar date
type FlowSummary struct {
	TotalEntered int64 `json:"total_entered"`
	TotalExited  int64 `json:"total_exited"`
}

// FlowDay is the flow rollup of one calendar date
type FlowDay struct {
	Date       string         `json:"date"`
	Summary    FlowSummary    `json:"summary"`
	HourlyData []FootfallHour `json:"hourly_data"`
}

// FlowData is the per-date flow rollup over a date range
type FlowData struct {
	Data []FlowDay `json:"data"`
}

// AggregateFlow groups footfall by (date, hour). Records without a resolvable
// time cannot be dated and are skipped.
func AggregateFlow(events []domain.FootfallEvent) FlowData {
	rows := stampAll(events, footfallTimes)

	buckets := make(map[Bucket]*flowAcc)
	summaries := make(map[string]*FlowSummary)
	for _, row := range rows {
		if !row.ok {
			continue
		}
		e := row.rec
		b := BucketOf(row.at)

		sum, ok := summaries[b.Date]
		if !ok {
			sum = &FlowSummary{}
			summaries[b.Date] = sum
		}
		sum.TotalEntered += e.Entered
		sum.TotalExited += e.Exited

		acc, ok := buckets[b]
		if !ok {
			acc = &flowAcc{}
			buckets[b] = acc
		}
		acc.entered += e.Entered
		acc.exited += e.Exited
		acc.editable.claim(e.ID)
	}

	dates := make([]string, 0, len(summaries))
	for d := range summaries {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	days := make([]FlowDay, 0, len(dates))
	for _, d := range dates {
		date := d
		days = append(days, FlowDay{
			Date:    date,
			Summary: *summaries[date],
			HourlyData: footfallHours(func(h int) *flowAcc {
				if acc, ok := buckets[Bucket{Date: date, Hour: h}]; ok {
					return acc
				}
				return &flowAcc{}
			}),
		})
	}

	return FlowData{Data: days}
}
