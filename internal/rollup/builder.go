package rollup

import "github.com/yildizemre/visapa/internal/domain"

// FootfallSummary is the footfall rollup plus the camera catalogue
type FootfallSummary struct {
	FootfallRollup
	AllCameras []string `json:"all_cameras"`
}

// QueueSummary is the queue rollup plus the cashier catalogue
type QueueSummary struct {
	QueueRollup
	AllCashiers       []string `json:"allCashiers"`
	AvailableCashiers []string `json:"availableCashiers"`
}

// ComparisonStats is reserved for period-over-period comparison
type ComparisonStats struct {
	TotalVisitors []int64 `json:"totalVisitors"`
}

// ZoneSummary is the zone rollup plus the zone catalogue
type ZoneSummary struct {
	ZoneRollup
	DwellTimeDistribution []DistributionEntry `json:"dwellTimeDistribution"`
	AllZones              []string            `json:"allZones"`
	ComparisonStats       ComparisonStats     `json:"comparisonStats"`
}

// BuildFootfallSummary aggregates footfall and attaches the camera catalogue
func BuildFootfallSummary(events []domain.FootfallEvent, cameras []string) FootfallSummary {
	return FootfallSummary{
		FootfallRollup: AggregateFootfall(events),
		AllCameras:     KnownDimensions(cameras),
	}
}

// BuildQueueSummary aggregates queue events and attaches the cashier catalogue.
// The catalogue must come from a query that ignores the cashier filter.
func BuildQueueSummary(events []domain.QueueEvent, cashiers []string) QueueSummary {
	known := KnownDimensions(cashiers)
	available := make([]string, len(known))
	copy(available, known)
	return QueueSummary{
		QueueRollup:       AggregateQueue(events),
		AllCashiers:       known,
		AvailableCashiers: available,
	}
}

// BuildZoneSummary aggregates zone events and attaches the zone catalogue
func BuildZoneSummary(events []domain.ZoneEvent, zones []string) ZoneSummary {
	return ZoneSummary{
		ZoneRollup:            AggregateZones(events),
		DwellTimeDistribution: []DistributionEntry{},
		AllZones:              KnownDimensions(zones),
		ComparisonStats:       ComparisonStats{TotalVisitors: []int64{}},
	}
}

// Response carries the requested rollup sections; absent kinds are omitted
type Response struct {
	Footfall *FootfallSummary `json:"footfall,omitempty"`
	Queue    *QueueSummary    `json:"queue,omitempty"`
	Zone     *ZoneSummary     `json:"zone,omitempty"`
}

// Builder assembles a Response one section at a time
type Builder struct {
	resp Response
}

// NewBuilder creates an empty Builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithFootfall sets the footfall section of the response
func (b *Builder) WithFootfall(s FootfallSummary) *Builder {
	b.resp.Footfall = &s
	return b
}

// WithQueue sets the queue section of the response
func (b *Builder) WithQueue(s QueueSummary) *Builder {
	b.resp.Queue = &s
	return b
}

// WithZone sets the zone section of the response
func (b *Builder) WithZone(s ZoneSummary) *Builder {
	b.resp.Zone = &s
	return b
}

// Build returns the assembled response
func (b *Builder) Build() Response {
	return b.resp
}
